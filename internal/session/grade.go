package session

// Celebration tiers select how big the result-screen animation gets.
const (
	CelebrationHigh   = "high"
	CelebrationMedium = "medium"
	CelebrationLow    = "low"
)

// Grade is a discrete letter derived from accuracy, with display copy.
type Grade struct {
	Letter      string `json:"letter"`
	Label       string `json:"label"`
	Celebration string `json:"celebration"`
}

// Classify maps an accuracy percentage to a grade. Out-of-range inputs are
// clamped to [0,100]; the function is pure and total.
func Classify(accuracy int) Grade {
	if accuracy < 0 {
		accuracy = 0
	}
	if accuracy > 100 {
		accuracy = 100
	}

	switch {
	case accuracy >= 95:
		return Grade{Letter: "S", Label: "Outstanding!", Celebration: CelebrationHigh}
	case accuracy >= 85:
		return Grade{Letter: "A", Label: "Excellent work!", Celebration: CelebrationHigh}
	case accuracy >= 70:
		return Grade{Letter: "B", Label: "Great job!", Celebration: CelebrationMedium}
	case accuracy >= 60:
		return Grade{Letter: "C", Label: "Good effort!", Celebration: CelebrationMedium}
	default:
		return Grade{Letter: "D", Label: "Keep practicing!", Celebration: CelebrationLow}
	}
}
