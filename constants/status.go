package constants

// Stage is the canonical processing stage for an in-flight document.
type Stage string

// Stable values (reported verbatim to API clients).
const (
	StageIdle       Stage = "idle"       // accepted, not started
	StageUploading  Stage = "uploading"  // session/destination initialization
	StageProcessing Stage = "processing" // text extraction (OCR or embedded)
	StageExtracting Stage = "extracting" // field extraction
	StageConverting Stage = "converting" // currency normalization checkpoint
	StageSaving     Stage = "saving"     // file upload + record append
	StageCompleted  Stage = "completed"  // terminal success
	StageError      Stage = "error"      // terminal failure
)

// Progress checkpoints emitted at stage transitions. Fixed markers, not
// measured work.
const (
	ProgressInit       = 5
	ProgressTextOCR    = 20
	ProgressFields     = 40
	ProgressCurrency   = 60
	ProgressFileUpload = 75
	ProgressAppend     = 90
	ProgressDone       = 100
)
