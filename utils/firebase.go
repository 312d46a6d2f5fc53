// utils/firebase.go
package utils

import (
	"context"

	"salonbook/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client. Push is disabled
// when no credentials file is configured.
func FirebaseInit() {
	path := config.AppConfig.FirebaseCredentialsPath
	if path == "" {
		GetLogger().Warn("firebase: no credentials configured, push notifications disabled")
		return
	}
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(path))
	if err != nil {
		GetLogger().Error("firebase: error initializing app", zap.Error(err))
		return
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		GetLogger().Error("firebase: error getting Messaging client", zap.Error(err))
		return
	}
	FCMClient = client
}
