package store

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uniplaces/carbon"

	"booktracker/internal/records"
)

const (
	dynamoKey       = "id"
	dynamoCreatedAt = "created_at"
	dynamoUpdatedAt = "updated_at"
)

// Dynamo stores records as items of a DynamoDB table keyed by "id".
type Dynamo struct {
	tableName string
	svc       dynamodbiface.DynamoDBAPI
	log       log.FieldLogger
}

// NewDynamo creates a Dynamo store using the given AWS session.
func NewDynamo(sess *session.Session, tableName string, l log.FieldLogger) *Dynamo {
	return NewDynamoWithClient(dynamodb.New(sess), tableName, l)
}

// NewDynamoWithClient creates a Dynamo store over an existing client.
func NewDynamoWithClient(svc dynamodbiface.DynamoDBAPI, tableName string, l log.FieldLogger) *Dynamo {
	return &Dynamo{
		tableName: tableName,
		svc:       svc,
		log:       loggerOrDefault(l),
	}
}

func (d *Dynamo) Ping(ctx context.Context) error {
	_, err := d.svc.DescribeTableWithContext(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.tableName),
	})
	return errors.Wrap(err, "describing "+d.tableName)
}

func (d *Dynamo) Create(ctx context.Context, fields records.Fields) (string, error) {
	id := uuid.NewString()
	now := carbon.Now().DateTimeString()

	doc := fields.Document()
	doc[dynamoKey] = id
	doc[dynamoCreatedAt] = now
	doc[dynamoUpdatedAt] = now

	item, err := dynamodbattribute.MarshalMap(doc)
	if err != nil {
		return "", errors.Wrap(err, "encoding item")
	}

	_, err = d.svc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]*string{
			"#id": aws.String(dynamoKey),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "putting item")
	}
	return id, nil
}

func (d *Dynamo) ListAll(ctx context.Context) ([]records.Record, error) {
	var out []records.Record
	var decodeErr error

	err := d.svc.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(d.tableName),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, item := range page.Items {
			var doc map[string]interface{}
			if err := dynamodbattribute.UnmarshalMap(item, &doc); err != nil {
				decodeErr = errors.Wrap(err, "decoding item")
				return false
			}
			id, _ := doc[dynamoKey].(string)
			if rec, ok := decode(d.log, id, doc); ok {
				out = append(out, rec)
			}
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "scanning "+d.tableName)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return out, nil
}

func (d *Dynamo) UpdateByID(ctx context.Context, id string, fields records.Fields) error {
	patch, err := patchOf(fields)
	if err != nil {
		return err
	}

	names := map[string]*string{
		"#id":         aws.String(dynamoKey),
		"#updated_at": aws.String(dynamoUpdatedAt),
	}
	values := map[string]*dynamodb.AttributeValue{
		":updated_at": {S: aws.String(carbon.Now().DateTimeString())},
	}
	expr := "SET #updated_at = :updated_at"
	for _, name := range records.FieldNames {
		v, ok := patch[name]
		if !ok {
			continue
		}
		names["#"+name] = aws.String(name)
		values[":"+name] = &dynamodb.AttributeValue{S: aws.String(v.(string))}
		expr += ", #" + name + " = :" + name
	}

	_, err = d.svc.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]*dynamodb.AttributeValue{
			dynamoKey: {S: aws.String(id)},
		},
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return d.translate(err, "updating item")
}

func (d *Dynamo) DeleteByID(ctx context.Context, id string) error {
	_, err := d.svc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]*dynamodb.AttributeValue{
			dynamoKey: {S: aws.String(id)},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]*string{
			"#id": aws.String(dynamoKey),
		},
	})
	return d.translate(err, "deleting item")
}

func (d *Dynamo) translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
		return ErrNotFound
	}
	return errors.Wrap(err, op)
}
