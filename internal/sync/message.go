package sync

import "github.com/example/vocabsync/pkg/models"

// PushRequest is the body of POST /sync/push. Timestamp is the
// server-estimated send time in Unix milliseconds.
type PushRequest struct {
	Words     []*models.WordEntry   `json:"words"`
	Reviews   []*models.ReviewState `json:"reviews"`
	DeviceID  string                `json:"deviceId"`
	Timestamp int64                 `json:"timestamp"`
}

// SyncedCounts reports how many entities of each type an operation touched.
type SyncedCounts struct {
	Words   int `json:"words"`
	Reviews int `json:"reviews"`
}

// Total returns the combined entity count.
func (c SyncedCounts) Total() int {
	return c.Words + c.Reviews
}

// PushResponse is the server acknowledgement of a push.
type PushResponse struct {
	Synced    SyncedCounts `json:"synced"`
	Timestamp int64        `json:"timestamp"`
}

// PullData is the payload of a pull response.
type PullData struct {
	Words   []*models.WordEntry   `json:"words"`
	Reviews []*models.ReviewState `json:"reviews"`
}

// PullResponse is the body of GET /sync/pull.
type PullResponse struct {
	Data      PullData `json:"data"`
	Timestamp int64    `json:"timestamp"`
}

// PushResult is what Engine.Push returns on success.
type PushResult struct {
	Synced    SyncedCounts
	Timestamp int64
}

// PullResult is what Engine.Pull returns on success. Received counts
// entities the server sent; Applied counts those conflict resolution
// actually stored.
type PullResult struct {
	Applied   SyncedCounts
	Received  int
	Timestamp int64
}

// SyncResult combines the two phases of a full sync round.
type SyncResult struct {
	Pull *PullResult
	Push *PushResult
}
