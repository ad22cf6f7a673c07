package dto

// DataResponse salida de /api/data/:kind/:format y del filtrado.
// Result es el texto renderizado (csv, markdown, xml) o la lista de registros (json).
type DataResponse struct {
	Kind   string       `json:"kind"`
	Format string       `json:"format"`
	Result any          `json:"result"`
	Page   PageResponse `json:"page"`
}

// ModelsResponse salida de /api/models.
type ModelsResponse struct {
	Models  []string `json:"available_models"`
	Formats []string `json:"formats"`
}

// StatusResponse salida de /api/accessibility.
type StatusResponse struct {
	Status string `json:"status"`
}
