package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleettrack_server/internal/models"
	"fleettrack_server/pkg/colors"
	"fleettrack_server/pkg/metrics"

	"gorm.io/gorm"
)

// Pacing constants for the per-device sweep loop. The delete pause is a
// crude proportional controller tuned against production load; the
// constants encode an empirically chosen ceiling.
const (
	sweepPauseFloor = 500 * time.Millisecond
	sweepPauseCap   = 5000 * time.Millisecond
	sweepRatioNum   = 4500
	sweepRatioDen   = 30000
)

// deletePauseDuration computes the inter-device pause in delete mode from
// the elapsed time of the just-completed delete:
// min(5000ms, (4500ms * elapsedMs)/30000ms + 500ms)
func deletePauseDuration(elapsed time.Duration) time.Duration {
	pause := time.Duration(sweepRatioNum*elapsed.Milliseconds()/sweepRatioDen)*time.Millisecond + sweepPauseFloor
	if pause > sweepPauseCap {
		pause = sweepPauseCap
	}
	return pause
}

// RetentionService walks every device of a group and counts or deletes
// events older than a cutoff. The walk is deliberately sequential and
// self-throttled to bound load on the shared database; there is no parallel
// fan-out.
type RetentionService struct {
	db       *gorm.DB
	resolver *GroupResolver
	events   EventStore

	// sleep is replaceable so tests do not pace in real time
	sleep func(time.Duration)
}

// NewRetentionService creates a retention service on the given database. A
// nil events store defaults to the gorm-backed one.
func NewRetentionService(database *gorm.DB, events EventStore) *RetentionService {
	if events == nil {
		events = NewGormEventStore(database)
	}
	return &RetentionService{
		db:       database,
		resolver: NewGroupResolver(database),
		events:   events,
		sleep:    time.Sleep,
	}
}

// CountOldEvents counts events older than oldTimeSec across every member of
// the group, inactive devices included. Returns 0 when the account is nil or
// the group resolves to no members (which also covers a missing account or
// group), and EventCountUnknown when every contributing device reported an
// indeterminate count.
func (s *RetentionService) CountOldEvents(account *models.Account, groupID string, oldTimeSec int64, verbose bool) (int64, error) {
	return s.sweep(account, groupID, oldTimeSec, verbose, false)
}

// DeleteOldEvents deletes events older than oldTimeSec across every member
// of the group. The cutoff is first clamped by the account's retention
// policy and then to the minimum valid timestamp. Returns the number of
// events deleted with the same zero/unknown semantics as CountOldEvents.
//
// A device record fetch failure mid-loop aborts the sweep and returns the
// total accumulated so far; already-deleted events are not restored.
func (s *RetentionService) DeleteOldEvents(account *models.Account, groupID string, oldTimeSec int64, verbose bool) (int64, error) {
	return s.sweep(account, groupID, oldTimeSec, verbose, true)
}

func (s *RetentionService) sweep(account *models.Account, groupID string, oldTimeSec int64, verbose bool, del bool) (int64, error) {
	mode := "count"
	verb := "counted"
	gerund := "Counting"
	if del {
		mode = "delete"
		verb = "deleted"
		gerund = "Deleting"
	}

	if account == nil {
		if verbose {
			colors.PrintSweep("Account is null")
		}
		return 0, nil
	}
	acctID := normalizeID(account.AccountID)
	groupID = normalizeID(groupID)

	usingRetainedDate := false
	if del {
		adjusted := account.AdjustRetainedEventTime(oldTimeSec)
		if adjusted != oldTimeSec {
			oldTimeSec = adjusted
			usingRetainedDate = true
		}
		if oldTimeSec < 1 {
			oldTimeSec = 1
		}
	}

	if verbose {
		line := fmt.Sprintf("%s old events for group %s/%s prior to %s",
			gerund, acctID, groupID,
			time.Unix(oldTimeSec, 0).Format(time.RFC3339))
		if usingRetainedDate {
			line += " (retained-date)"
		}
		colors.PrintSweep("%s", line)
	}

	// maintenance sweeps must not silently skip inactive devices
	devList, err := s.resolver.DeviceIDsForGroup(acctID, groupID, nil, true, -1)
	if err != nil {
		return 0, fmt.Errorf("resolving group %s/%s: %w", acctID, groupID, err)
	}
	devCount := len(devList)
	if devCount <= 0 {
		// may also mean that the account/group does not exist
		if verbose {
			colors.PrintSweep("  No devices found: %s/%s", acctID, groupID)
		}
		return 0, nil
	}

	sweepStart := time.Now()
	defer func() {
		metrics.SweepsTotal.WithLabelValues(mode).Inc()
		metrics.SweepDurationSeconds.WithLabelValues(mode).Observe(time.Since(sweepStart).Seconds())
	}()

	var msg strings.Builder
	unknownSeen := false
	var total int64
	for _, devID := range devList {
		msg.Reset()

		var device models.Device
		err := s.db.Where("account_id = ? AND device_id = ?", acctID, devID).First(&device).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// (unlikely) skip this device
			devCount--
			continue
		}
		if err != nil {
			if del {
				colors.PrintError("Unable to read device %s/%s: %v", acctID, devID, err)
				return total, fmt.Errorf("reading device %s/%s: %w", acctID, devID, err)
			}
			// count mode: this device contributes nothing
			colors.PrintWarning("Unable to read device %s/%s: %v", acctID, devID, err)
			devCount--
			continue
		}

		start := time.Now()
		var count int64
		var opErr error
		if del {
			count, opErr = s.events.DeleteEventsBefore(acctID, devID, oldTimeSec, &msg)
		} else {
			count, opErr = s.events.CountEventsBefore(acctID, devID, oldTimeSec, &msg)
		}
		elapsed := time.Since(start)
		if opErr != nil {
			if del {
				return total, opErr
			}
			colors.PrintWarning("Unable to count events for %s/%s: %v", acctID, devID, opErr)
			count = 0
		}

		if count > 0 {
			total += count
		} else if count < 0 {
			unknownSeen = true
		}
		devCount--

		if verbose {
			target := fmt.Sprintf("%-25s", acctID+"/"+devID)
			if count >= 0 {
				line := fmt.Sprintf("  Device: %s - %s %5d [%dms]", target, verb, count, elapsed.Milliseconds())
				if msg.Len() > 0 {
					line += "  " + msg.String()
				}
				colors.PrintSweep("%s", line)
			} else {
				line := fmt.Sprintf("  Device: %s - %s     ? (exact count unavailable) [%dms]", target, verb, elapsed.Milliseconds())
				if msg.Len() > 0 {
					line += "  " + msg.String()
				}
				colors.PrintSweep("%s", line)
			}
		}

		// pause before the next device to bound database load
		if devCount > 0 {
			if del {
				s.sleep(deletePauseDuration(elapsed))
			} else {
				s.sleep(sweepPauseFloor)
			}
		}
	}

	if verbose {
		target := fmt.Sprintf("%-25s", acctID+"/"+groupID)
		if total > 0 || del {
			colors.PrintSweep("  Total : %s - %s %5d", target, verb, total)
		} else if unknownSeen {
			colors.PrintSweep("  Unable to determine event counts: %s/%s", acctID, groupID)
		} else {
			colors.PrintSweep("  No devices with counts greater than zero: %s/%s", acctID, groupID)
		}
	}

	if total > 0 {
		metrics.SweepEventsTotal.WithLabelValues(mode).Add(float64(total))
	}

	if total <= 0 && unknownSeen {
		return EventCountUnknown, nil
	}
	return total, nil
}
