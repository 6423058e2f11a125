package usecase

import "context"

// MessageProducer публикует сообщения в брокер.
type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
