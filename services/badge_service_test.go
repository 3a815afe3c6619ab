package services

import (
	"strings"
	"testing"

	"elementleAPI/internal/attempt"
)

// The snapshot must rank the way the live endpoint does: REGION within
// each region, USER globally.
func TestSnapshotRankingQuery(t *testing.T) {
	regionQuery := snapshotRankingQuery(attempt.GameTypeRegion)
	if !strings.Contains(regionQuery, "PARTITION BY u.region") {
		t.Error("REGION snapshot does not partition rank by region")
	}
	if !strings.Contains(regionQuery, "PARTITION BY region") {
		t.Error("REGION snapshot does not partition the total by region")
	}

	userQuery := snapshotRankingQuery(attempt.GameTypeUser)
	if strings.Contains(userQuery, "PARTITION BY") {
		t.Error("USER snapshot must rank globally, found a partition")
	}
}
