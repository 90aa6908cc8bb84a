// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

// Stage names one step of adding a paper.
type Stage string

// Stages in the order a paper moves through them.
const (
	StageFetching     Stage = "fetching"
	StageDownloading  Stage = "downloading"
	StageRendering    Stage = "rendering"
	StageWriting      Stage = "writing"
	StageAppendingBib Stage = "appending_bib"
	StageDone         Stage = "done"
)

// Outcome is how a stage ended. Skipped and not-needed stages are not
// failures.
type Outcome string

const (
	OutcomeDone      Outcome = "done"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeNotNeeded Outcome = "not needed"
	OutcomeFailed    Outcome = "failed"
)

// StageResult records the outcome of one stage.
type StageResult struct {
	Stage   Stage
	Outcome Outcome
	Detail  string
}
