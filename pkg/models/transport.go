package models

// LabelOptions are the caller-tunable pipeline settings. Nil fields take defaults.
type LabelOptions struct {
	EnhanceContrast     *bool    `json:"enhance_contrast,omitempty" form:"enhance_contrast"`
	Denoise             *bool    `json:"denoise,omitempty" form:"denoise"`
	ResizeFactor        *float64 `json:"resize_factor,omitempty" form:"resize_factor"`
	ConfidenceThreshold *int     `json:"confidence_threshold,omitempty" form:"confidence_threshold"`
	EnhanceTextRegions  *bool    `json:"enhance_text_regions,omitempty" form:"enhance_text_regions"`
	ExpectedText        string   `json:"expected_text,omitempty" form:"expected_text"`
}

// AnalyzeURLRequest asks for analysis of an image at an http(s) or azure blob URL.
type AnalyzeURLRequest struct {
	URL string `json:"url" binding:"required"`
	LabelOptions
}

// AnalyzeTextRequest asks for analysis of text that was recognised elsewhere.
type AnalyzeTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
