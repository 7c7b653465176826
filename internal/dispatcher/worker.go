package dispatcher

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Worker publishes events to the SQS queue until the channel closes or ctx is done.
func Worker(ctx context.Context, id int, events <-chan Event, svc sqsiface.SQSAPI, sqsURL string, l log.FieldLogger) error {
	wl := l.WithField("worker", id)
	wl.Info("Starting event worker")

	for {
		select {
		case <-ctx.Done():
			wl.Info("Stopping event worker")
			return nil
		case e, ok := <-events:
			if !ok {
				wl.Info("Event channel closed, stopping worker")
				return nil
			}
			if err := publish(ctx, svc, sqsURL, e); err != nil {
				wl.WithError(err).WithFields(log.Fields{"type": e.Type, "record_id": e.RecordID}).Error("Error publishing event")
				continue
			}
			wl.WithFields(log.Fields{"type": e.Type, "record_id": e.RecordID}).Debug("Published event")
		}
	}
}

func publish(ctx context.Context, svc sqsiface.SQSAPI, sqsURL string, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "encoding event")
	}
	_, err = svc.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(sqsURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]*sqs.MessageAttributeValue{
			"type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(e.Type)),
			},
		},
	})
	return errors.Wrap(err, "sending message")
}
