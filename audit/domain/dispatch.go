package domain

import "context"

// Delivery é o que o despachante recebe depois que a auditoria terminou.
type Delivery struct {
	To        string
	TargetURL string
	Report    Report
	Summary   Summary
}

// Message é um e-mail pronto para envio.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Renderer transforma uma Delivery no documento de marketing.
type Renderer interface {
	Render(d Delivery) (Message, error)
}

// Sender entrega a mensagem a um provedor de e-mail e devolve o id do envio.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
