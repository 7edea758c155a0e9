package ws

const (
	// Inbound
	EventJoinRoom    = "joinRoom"
	EventSendMessage = "sendMessage"

	// Outbound
	EventReceiveMessage = "receiveMessage"
)
