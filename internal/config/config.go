package config

type Config struct {
	ScenarioPath  string
	ClipsPath     string
	PDFPath       string
	OutputVideo   string
	OutputFrames  string
	Width         int
	Height        int
	FPS           int
	BlendFrames   int
	SmoothCamera  bool
	Workers       int
	DPI           int
	StillDuration float64
	VideoEncoder  string
	Quality       int
	OutroLink     string
	OutroFrames   int
	Debug         bool
}

type ExportParams struct {
	FPS          int
	Workers      int
	VideoEncoder string
	Quality      int
	Debug        bool
}
