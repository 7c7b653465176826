package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"booktracker/config"
	"booktracker/internal/identity"
	"booktracker/internal/store"
)

const identityTimeout = 15 * time.Second

// backends are the remote services selected by configuration.
type backends struct {
	Store   store.DocumentStore
	Gateway identity.Gateway
	SQS     sqsiface.SQSAPI

	closers []func() error
}

// newBackends connects every configured backend. Clients opened before a
// failure are closed again.
func newBackends(ctx context.Context, cfg *config.AppConfig, logger *logrus.Logger) (*backends, error) {
	b := &backends{}
	if err := b.setup(ctx, cfg, logger); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *backends) setup(ctx context.Context, cfg *config.AppConfig, logger *logrus.Logger) error {
	var sess *session.Session
	if cfg.UsesAWS() {
		awsCfg := &aws.Config{Region: aws.String(cfg.AWS.Region)}
		if cfg.AWS.AccessKey != "" {
			awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AWS.AccessKey, cfg.AWS.SecretKey, "")
		}
		var err error
		if sess, err = session.NewSession(awsCfg); err != nil {
			return errors.Wrap(err, "creating AWS session")
		}
	}

	switch cfg.Store.Backend {
	case config.StoreMemory:
		b.Store = store.NewMemory(logger)
	case config.StoreMySQL:
		logger.WithField("dsn", cfg.Store.MySQL.Redacted()).Info("Connecting to MySQL")
		db, err := sql.Open("mysql", cfg.Store.MySQL.DSN())
		if err != nil {
			return errors.Wrap(err, "opening database")
		}
		b.closers = append(b.closers, db.Close)
		s := store.NewMySQL(db, logger)
		if err := s.Ping(ctx); err != nil {
			return errors.Wrap(err, "pinging database")
		}
		if err := s.EnsureSchema(ctx); err != nil {
			return err
		}
		logger.Info("Database pinged successfully.")
		b.Store = s
	case config.StoreDynamo:
		b.Store = store.NewDynamo(sess, cfg.Store.DynamoTable, logger)
	case config.StoreFirestore:
		var opts []option.ClientOption
		if cfg.Store.FirestoreCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Store.FirestoreCredentialsFile))
		}
		client, err := firestore.NewClient(ctx, cfg.Store.FirestoreProject, opts...)
		if err != nil {
			return errors.Wrap(err, "creating firestore client")
		}
		b.closers = append(b.closers, client.Close)
		b.Store = store.NewFirestore(client, cfg.Store.Collection, logger)
	}

	switch cfg.Identity.Backend {
	case config.IdentityLocal:
		logger.Warn("Using the in-process identity provider; accounts are lost on restart")
		b.Gateway = identity.NewLocal()
	case config.IdentityFirebase:
		fb := identity.NewFirebase(cfg.Identity.FirebaseAPIKey, &http.Client{Timeout: identityTimeout})
		if cfg.Identity.FirebaseURL != "" {
			fb = fb.WithBaseURL(cfg.Identity.FirebaseURL)
		}
		b.Gateway = fb
	}

	if cfg.Events.Queue != "" {
		b.SQS = sqs.New(sess)
		logger.WithField("queue", cfg.Events.QueueURL()).Info("Publishing record events")
	}
	return nil
}

// Close releases backend clients. It is safe to call more than once.
func (b *backends) Close() {
	for _, c := range b.closers {
		_ = c()
	}
	b.closers = nil
}
