package dto

// CreateBuildingRequest is the payload for adding a building to a project
type CreateBuildingRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	Floors      int    `json:"floors" binding:"omitempty,gte=1,lte=300"`
}

// CreateFacadeRequest is the payload for adding a facade to a building
type CreateFacadeRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Orientation string  `json:"orientation" binding:"omitempty,oneof=N NE E SE S SW W NW"`
	AreaSqm     float64 `json:"areaSqm" binding:"gte=0"`
}

// CreatePanelRequest is the payload for adding a panel to a project
type CreatePanelRequest struct {
	Reference string `json:"reference" binding:"required,max=100"`
	PanelType string `json:"panelType" binding:"max=100"`
	WidthMM   int    `json:"widthMm" binding:"gte=0"`
	HeightMM  int    `json:"heightMm" binding:"gte=0"`
	Status    string `json:"status" binding:"omitempty,oneof=designed produced installed"`
}
