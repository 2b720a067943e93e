// Package scheduler runs periodic background jobs: one-time-code cleanup and
// a chatroom data-integrity scan.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/mindhaven-app/mindhaven-api/databases"
	"github.com/mindhaven-app/mindhaven-api/otp"
)

const scanTimeout = 5 * time.Minute

// Scheduler handles the periodic background jobs
type Scheduler struct {
	cron *cron.Cron
	OTP  otp.Store
	CRDB databases.ChatroomDatabase
	UDB  databases.UserDatabase
}

// NewScheduler creates a new scheduler instance
func NewScheduler(store otp.Store, crdb databases.ChatroomDatabase, udb databases.UserDatabase) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		OTP:  store,
		CRDB: crdb,
		UDB:  udb,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep expired one-time codes every 5 minutes; the per-code timers
	// already handle the common case, this catches anything they missed
	_, err := s.cron.AddFunc("*/5 * * * *", s.sweepCodes)
	if err != nil {
		zap.S().Errorw("failed to register otp sweep job", "error", err)
	}

	// Scan for chatrooms referencing deleted participants daily at 3 AM UTC
	_, err = s.cron.AddFunc("0 3 * * *", s.scanChatroomIntegrity)
	if err != nil {
		zap.S().Errorw("failed to register chatroom integrity job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("background scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("background scheduler stopped")
}

func (s *Scheduler) sweepCodes() {
	if removed := s.OTP.Sweep(); removed > 0 {
		zap.S().Infow("otp sweep completed", "removed", removed)
	}
}

// scanChatroomIntegrity logs active chatrooms whose participant references no
// longer resolve. The read path already excludes them; this job makes the
// inconsistency visible so someone can clean it up.
func (s *Scheduler) scanChatroomIntegrity() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	rooms, err := s.CRDB.Find(ctx, bson.M{"active": true})
	if err != nil {
		zap.S().Errorw("chatroom integrity scan failed to list rooms", "error", err)
		return
	}

	dangling := 0
	for i := range rooms {
		for _, participant := range []struct {
			role string
			id   interface{}
		}{
			{"child", rooms[i].ChildID},
			{"psychologist", rooms[i].PsychologistID},
		} {
			if _, err := s.UDB.FindOne(ctx, bson.M{"_id": participant.id}); err != nil {
				dangling++
				zap.S().Warnw("chatroom references missing participant",
					"chatroomId", rooms[i].ID.Hex(),
					"role", participant.role,
				)
			}
		}
	}
	zap.S().Infow("chatroom integrity scan completed", "rooms", len(rooms), "danglingReferences", dangling)
}
