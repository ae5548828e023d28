// Package push – FCM notifier.
//
// This file implements the Notifier port on top of the Firebase Admin SDK's
// messaging client. Credentials come from a service-account file or, when
// none is configured, from Application Default Credentials.
package push

import (
	"context"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// topicPrefix marks a destination as a topic path rather than a token.
const topicPrefix = "/topics/"

// fcmSender is the subset of *messaging.Client used by FCMNotifier.
// Narrowing the dependency keeps the notifier testable without credentials.
type fcmSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier delivers data pushes through Firebase Cloud Messaging.
// It is safe for concurrent use.
type FCMNotifier struct {
	client fcmSender
}

// NewFCMNotifier initializes the Firebase app and messaging client.
// credentialsFile may be empty, in which case Application Default
// Credentials are used. projectID may be empty when the credentials
// already carry one.
func NewFCMNotifier(ctx context.Context, credentialsFile, projectID string) (*FCMNotifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMNotifier{client: client}, nil
}

// Send delivers msg as an Android data message. The destination is routed to
// the token or topic field depending on the "/topics/" prefix, matching FCM
// addressing conventions.
func (n *FCMNotifier) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	ttl := msg.TTL
	out := &messaging.Message{
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: msg.Priority,
			TTL:      &ttl,
		},
	}
	if strings.HasPrefix(msg.To, topicPrefix) {
		out.Topic = strings.TrimPrefix(msg.To, topicPrefix)
	} else {
		out.Token = msg.To
	}
	return n.client.Send(ctx, out)
}
