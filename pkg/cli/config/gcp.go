package config

import (
	"context"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	firestoreRecorder "github.com/m-mizutani/ghfeed/pkg/infra/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// GCP holds Google Cloud credentials shared by GCS and Firestore. Application
// Default Credentials are used if CredentialsFile is empty.
type GCP struct {
	CredentialsFile string
}

// Flags returns CLI flags for Google Cloud configuration
func (c *GCP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gcp-credentials-file",
			Usage:       "Path to Google Cloud service account key file",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("GHFEED_GCP_CREDENTIALS_FILE"),
		},
	}
}

// ClientOptions returns options for Google Cloud clients
func (c *GCP) ClientOptions() []option.ClientOption {
	if c.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}
}

// NewStorageClient creates a Cloud Storage client. The caller must close it.
func (c *GCP) NewStorageClient(ctx context.Context) (*storage.Client, error) {
	client, err := storage.NewClient(ctx, c.ClientOptions()...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}
	return client, nil
}

// Firestore holds run history configuration. History is not recorded if
// ProjectID is empty.
type Firestore struct {
	ProjectID  string
	DatabaseID string
}

// Flags returns CLI flags for Firestore configuration
func (c *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project ID of Firestore for run history",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("GHFEED_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Value:       firestore.DefaultDatabaseID,
			Destination: &c.DatabaseID,
			Sources:     cli.EnvVars("GHFEED_FIRESTORE_DATABASE_ID"),
		},
	}
}

// NewRecorder creates a run recorder. It returns nil recorder and a no-op
// closer if Firestore is not configured.
func (c *Firestore) NewRecorder(ctx context.Context, gcp *GCP) (interfaces.RunRecorder, func(), error) {
	if c.ProjectID == "" {
		return nil, func() {}, nil
	}

	databaseID := c.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, c.ProjectID, databaseID, gcp.ClientOptions()...)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("project_id", c.ProjectID),
			goerr.V("database_id", databaseID),
		)
	}

	return firestoreRecorder.NewRecorder(client), func() { _ = client.Close() }, nil
}
