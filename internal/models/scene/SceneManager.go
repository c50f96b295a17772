// This file contains the SceneManager implementation, which is responsible for interacting with the MongoDB samples collection.
// The SceneManager keeps a history of completed sample scene downloads: one document per scene, keyed by "<category>/<scene>".
// The history is informational. Whether a scene gets downloaded is still decided by its directory alone.

package scene

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/log"
)

var (
	// ErrRecordNotFound is returned when no download record exists for a scene.
	ErrRecordNotFound = errors.New("download record not found")
)

// DownloadRecord represents a completed scene download.
type DownloadRecord struct {
	ID           string    `bson:"_id" json:"id"`
	Target       Target    `bson:"target" json:"target"`
	SourceURL    string    `bson:"source_url" json:"source_url"`
	ObjNum       int       `bson:"obj_num" json:"obj_num"`
	Files        []string  `bson:"files" json:"files"`
	DownloadedAt time.Time `bson:"downloaded_at" json:"downloaded_at"`
}

// RecordID returns the record key of a scene.
func RecordID(category Category, sceneID string) string {
	return string(category) + "/" + sceneID
}

type SceneManager struct {
	collection *mongo.Collection
	logger     *log.Logger
}

// NewSceneManager creates a new SceneManager backed by the mobilenerf.samples collection.
func NewSceneManager(client *mongo.Client, logger *log.Logger) *SceneManager {
	db := client.Database("mobilenerf")
	return &SceneManager{
		collection: db.Collection("samples"),
		logger:     logger,
	}
}

// recordUpsert returns the filter and update documents that replace the fields of the record stored under record.ID.
func recordUpsert(record *DownloadRecord) (filter, update bson.M) {
	return bson.M{"_id": record.ID}, bson.M{"$set": record}
}

// RecordScene upserts the download record of a scene.
func (sm *SceneManager) RecordScene(ctx context.Context, record *DownloadRecord) error {
	filter, update := recordUpsert(record)
	_, err := sm.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	sm.logger.Debugf("Recorded download of %s", record.ID)
	return nil
}

// GetRecord returns the download record of a scene.
// Returns ErrRecordNotFound if the scene was never recorded.
func (sm *SceneManager) GetRecord(ctx context.Context, category Category, sceneID string) (*DownloadRecord, error) {
	var record DownloadRecord
	err := sm.collection.FindOne(ctx, bson.M{"_id": RecordID(category, sceneID)}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}
