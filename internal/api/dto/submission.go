package dto

// SubmissionRequest carries one form submission. Lat/Lon are optional; when
// present they count as a manual edit of the session location.
type SubmissionRequest struct {
	Name   string   `json:"name"`
	Answer string   `json:"answer"`
	Lat    *float64 `json:"lat" validate:"required_with=Lon"`
	Lon    *float64 `json:"lon" validate:"required_with=Lat"`
	Seq    int64    `json:"seq" validate:"min=0"`
}

type SubmissionResponse struct {
	CreatedAt string  `json:"created_at"`
	Name      string  `json:"name"`
	Answer    string  `json:"answer"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

type CreateSubmissionResponse struct {
	Message    string             `json:"message"`
	Submission SubmissionResponse `json:"submission"`
}

type TableResponse struct {
	Exists  bool                 `json:"exists"`
	Message string               `json:"message,omitempty"`
	Rows    []SubmissionResponse `json:"rows"`
}
