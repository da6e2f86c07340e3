package dto

// WebhookRequest cuerpo del webhook de la plataforma de mensajería.
type WebhookRequest struct {
	Destination string         `json:"destination"`
	Events      []WebhookEvent `json:"events"`
}

// WebhookEvent evento individual del lote.
type WebhookEvent struct {
	Type           string          `json:"type" validate:"required"`
	WebhookEventID string          `json:"webhookEventId"`
	ReplyToken     string          `json:"replyToken"`
	Timestamp      int64           `json:"timestamp"`
	Message        *WebhookMessage `json:"message,omitempty"`
	Source         WebhookSource   `json:"source" validate:"required"`
}

// WebhookMessage contenido del mensaje (solo se usan los de tipo text).
type WebhookMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// WebhookSource origen del evento.
type WebhookSource struct {
	Type    string `json:"type" validate:"required,oneof=user group room"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// ErrorResponse cuerpo de los rechazos del webhook (firma o JSON inválidos).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
