package chat

// presenceResponse reports current room membership
type presenceResponse struct {
	ChatID  string `json:"chatId" example:"665f1c2e9b3d4a0012345678"` // Chat identifier
	Members int    `json:"members" example:"2"`                      // Connections currently joined
}
