package separation

// separateRequest is the payload sent to the separation engine
type separateRequest struct {
	AudioPath string `json:"audio_path"`
	OutputDir string `json:"output_dir"`
	Stems     int    `json:"stems"`
}

// separateResponse is the engine's reply; paths are absolute and the
// files exist by the time the call returns
type separateResponse struct {
	Status     string `json:"status"`
	VocalsPath string `json:"vocals_path"`
	BgmPath    string `json:"bgm_path"`
	SfxPath    string `json:"sfx_path"`
	Message    string `json:"message"`
}

// StemPaths holds the three separated tracks for a source audio file
type StemPaths struct {
	Vocals string
	Bgm    string
	Sfx    string
}
