package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const collectionRuns = "runs"

type recorder struct {
	client *firestore.Client
}

// NewRecorder creates a RunRecorder writing runs to the "runs" collection.
// The caller owns client.
func NewRecorder(client *firestore.Client) interfaces.RunRecorder {
	return &recorder{client: client}
}

func (x *recorder) SaveRun(ctx context.Context, run *model.Run) error {
	if run.ID == "" {
		return goerr.New("run has no ID")
	}

	if _, err := x.client.Collection(collectionRuns).Doc(run.ID).Set(ctx, run); err != nil {
		return goerr.Wrap(err, "failed to save run", goerr.V("run_id", run.ID))
	}
	return nil
}
