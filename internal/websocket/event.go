package websocket

// InboundFrame — входящий кадр от клиента
type InboundFrame struct {
	Text string `json:"text"`
}

// ChatEvent — исходящий кадр для участников чата.
// IsOwn не является общим для всех: он вычисляется заново
// для каждого получателя в момент доставки.
type ChatEvent struct {
	ID        uint   `json:"id"`
	Sender    string `json:"sender"`
	SenderID  uint   `json:"sender_id"`
	Text      string `json:"text"`
	Status    string `json:"status,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
	IsOwn     bool   `json:"is_own"`
}
