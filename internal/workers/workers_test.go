// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/mock/servicemock"
	"github.com/MKhiriev/go-repo-sync/internal/service"
)

// recordingWorker appends "run <id>" and "stop <id>" to a shared log.
type recordingWorker struct {
	id  string
	log *[]string
}

func (r *recordingWorker) Run()  { *r.log = append(*r.log, "run "+r.id) }
func (r *recordingWorker) Stop() { *r.log = append(*r.log, "stop "+r.id) }

func TestWorkers_RunAndStopOrder(t *testing.T) {
	var calls []string
	ws := &Workers{workers: []Worker{
		&recordingWorker{id: "a", log: &calls},
		&recordingWorker{id: "b", log: &calls},
	}}

	ws.Run()
	ws.Stop()

	assert.Equal(t, []string{"run a", "run b", "stop b", "stop a"}, calls)
}

func TestWorkers_Empty(t *testing.T) {
	ws := &Workers{}

	// should not panic without workers
	ws.Run()
	ws.Stop()
}

func TestNewWorkers_StartsSyncJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := servicemock.NewMockSyncJob(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		job.EXPECT().Start(ctx, 30*time.Minute),
		job.EXPECT().Stop(),
	)

	ws := NewWorkers(ctx, &service.Services{SyncJob: job}, config.ClientWorkers{SyncInterval: 30 * time.Minute}, logger.Nop())
	ws.Run()
	ws.Stop()
}
