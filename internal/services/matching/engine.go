package matching

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"estate-reconciliation-backend/internal/models"
)

const (
	dateWeight        = 0.6
	descriptionWeight = 0.4
)

type Config struct {
	// WindowDays is the largest distance in calendar days between a bank
	// post date and an internal transaction date that can still match.
	WindowDays int
	// Threshold is the minimum score (0-100) for a pair to be accepted.
	Threshold float64
}

// Match is an accepted pairing of a bank line with an internal transaction.
type Match struct {
	Line             models.BankStatementLine
	Internal         models.InternalTransaction
	DaysApart        int
	DateScore        float64
	DescriptionScore float64
	Score            float64
}

// Details is stored alongside the link created from the match.
func (m Match) Details() map[string]interface{} {
	return map[string]interface{}{
		"amount":            m.Line.Amount().String(),
		"days_apart":        m.DaysApart,
		"date_score":        m.DateScore,
		"description_score": m.DescriptionScore,
		"final_score":       m.Score,
		"bank_remarks":      m.Line.Remarks,
		"internal_desc":     m.Internal.Description,
	}
}

// Run pairs bank lines with internal transactions of the same direction and
// exact amount. Pairs are accepted greedily, best score first, and each line
// and transaction is used at most once.
func Run(lines []models.BankStatementLine, txns []models.InternalTransaction, cfg Config) []Match {
	var candidates []Match
	for _, line := range lines {
		amount := line.Amount()
		if !amount.IsPositive() {
			continue
		}
		for _, tx := range txns {
			if tx.Kind != line.Kind() || !tx.Amount.Equal(amount) {
				continue
			}
			days := daysApart(line.PostDate, tx.Date)
			if days > cfg.WindowDays {
				continue
			}
			m := Match{
				Line:             line,
				Internal:         tx,
				DaysApart:        days,
				DateScore:        dateScore(days),
				DescriptionScore: descriptionSimilarity(line.Remarks, tx.Description),
			}
			m.Score = math.Min(dateWeight*m.DateScore+descriptionWeight*m.DescriptionScore, 100)
			if m.Score < cfg.Threshold {
				continue
			}
			candidates = append(candidates, m)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Line.PostDate.Equal(b.Line.PostDate) {
			return a.Line.PostDate.Before(b.Line.PostDate)
		}
		if a.Line.ID != b.Line.ID {
			return a.Line.ID.String() < b.Line.ID.String()
		}
		return a.DaysApart < b.DaysApart
	})

	usedLines := make(map[string]bool)
	usedTxns := make(map[string]bool)
	var matches []Match
	for _, c := range candidates {
		lineKey := c.Line.ID.String()
		txKey := string(c.Internal.Kind) + ":" + c.Internal.ID.String()
		if usedLines[lineKey] || usedTxns[txKey] {
			continue
		}
		usedLines[lineKey] = true
		usedTxns[txKey] = true
		matches = append(matches, c)
	}
	return matches
}

func daysApart(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Abs(da.Sub(db).Hours() / 24))
}

func dateScore(days int) float64 {
	switch {
	case days == 0:
		return 100
	case days <= 1:
		return 80
	case days <= 3:
		return 60
	default:
		return 40
	}
}

// descriptionSimilarity scores 0-100 how well the internal description's
// tokens are covered by the bank remarks.
func descriptionSimilarity(bankRemarks, description string) float64 {
	bTokens := strings.Fields(normalize(bankRemarks))
	dTokens := strings.Fields(normalize(description))
	if len(dTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	total := 0.0
	for _, d := range dTokens {
		best := 0.0
		for _, b := range bTokens {
			r := levenshtein.RatioForStrings([]rune(d), []rune(b), levenshtein.DefaultOptions)
			if r > best {
				best = r
			}
		}
		total += best
	}
	return total / float64(len(dTokens)) * 100
}

func normalize(s string) string {
	s = strings.ToUpper(s)
	s = strings.NewReplacer(".", "", ",", "", "-", " ", "/", " ").Replace(s)
	return strings.TrimSpace(s)
}
