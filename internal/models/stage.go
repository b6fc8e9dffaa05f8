package models

// Stage: этап воронки, в котором находится сделка.
type Stage string

const (
	StageLead        Stage = "lead"
	StageQualified   Stage = "qualified"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageClosedWon   Stage = "closed-won"
	StageClosedLost  Stage = "closed-lost"
)

type StageInfo struct {
	ID   Stage  `json:"id"`
	Name string `json:"name"`
}

// Stages in board order.
var Stages = []StageInfo{
	{ID: StageLead, Name: "Lead"},
	{ID: StageQualified, Name: "Qualified"},
	{ID: StageProposal, Name: "Proposal"},
	{ID: StageNegotiation, Name: "Negotiation"},
	{ID: StageClosedWon, Name: "Closed Won"},
	{ID: StageClosedLost, Name: "Closed Lost"},
}

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if st.ID == s {
			return true
		}
	}
	return false
}

// Name returns the display name, or the raw id for unknown stages.
func (s Stage) Name() string {
	for _, st := range Stages {
		if st.ID == s {
			return st.Name
		}
	}
	return string(s)
}
