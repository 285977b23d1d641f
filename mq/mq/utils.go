package mq

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Subscriber is anything that hands out topic subscriptions of M.
type Subscriber[M any] interface {
	Subscribe(uuid.UUID) (uuid.UUID, <-chan M, error)
	DeSubscribe(id uuid.UUID) error
}

// SubscribeProcessor subscribes to topicId on service and pumps every message
// through transformFunc into outputStream until ctx is done or the input
// closes. transformFunc may skip a message by returning true. outputStream is
// closed on exit, so it must be owned by this call.
func SubscribeProcessor[S Subscriber[M], M any, O any](
	topicId uuid.UUID,
	ctx context.Context,
	service S,
	transformFunc func(msg M) (O, bool, error),
	outputStream chan<- O,
) error {
	// 執行訂閱
	uid, inputCh, err := service.Subscribe(topicId)
	if err != nil {
		close(outputStream)
		return err
	}

	go func() {
		// 在 goroutine 結束時，自動取消訂閱
		defer func() {
			if err := service.DeSubscribe(uid); err != nil {
				slog.Debug("de-subscribe", "subscriber", uid, "error", err)
			}
			close(outputStream)
		}()

		for {
			select {
			case msg, ok := <-inputCh:
				if !ok {
					return
				}

				output, skip, err := transformFunc(msg)
				if err != nil {
					slog.Warn("transform message", "subscriber", uid, "error", err)
					continue
				}
				if skip {
					// 依 transform 結果略過此訊息
					continue
				}

				select {
				case outputStream <- output:
				case <-ctx.Done():
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
