package domain

import "time"

type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

type Ticket struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	TicketNo  string       `json:"ticketNo"`
	Topic     string       `json:"topic"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}
