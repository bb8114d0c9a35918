package response

type EvidenceUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
