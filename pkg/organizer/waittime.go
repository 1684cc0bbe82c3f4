package organizer

import (
	"fmt"
	"log"
	"math"
)

// SetWaitTime assigns the same wait time, in seconds, to every print
// point.
func SetWaitTime(o *Organizer, seconds float64) error {
	if err := o.requireParameterizable(); err != nil {
		return err
	}
	if seconds < 0 {
		return fmt.Errorf("wait time must not be negative, got %v", seconds)
	}
	o.collection.Walk(func(pp *PrintPoint, _, _, _ int) bool {
		pp.WaitTime = seconds
		return true
	})
	return nil
}

// SetWaitTimeAtSharpCorners makes the print head pause at sharp
// corners. A corner is sharp when the angle between the directions to
// the neighboring points falls below threshold (radians). Waiting
// points also get blend radius 0 so the corner is not rounded away.
func SetWaitTimeAtSharpCorners(o *Organizer, threshold, waitTime float64) error {
	if err := o.requireParameterizable(); err != nil {
		return err
	}
	if threshold <= 0 || threshold >= math.Pi {
		return fmt.Errorf("corner threshold must be in (0, pi), got %v", threshold)
	}
	if waitTime <= 0 {
		return fmt.Errorf("wait time must be positive, got %v", waitTime)
	}

	count := 0
	o.collection.Walk(func(pp *PrintPoint, i, j, k int) bool {
		prev, next := o.collection.Neighbors(i, j, k)
		if prev == nil || next == nil {
			return true
		}

		toPrev := prev.Position.Sub(pp.Position).Normalize()
		toNext := next.Position.Sub(pp.Position).Normalize()
		angle := math.Acos(math.Max(-1, math.Min(1, toPrev.Dot(toNext))))
		if angle < threshold {
			pp.WaitTime = waitTime
			pp.BlendRadius = 0
			count++
		}
		return true
	})
	log.Printf("organizer: waiting at %d sharp corners", count)
	return nil
}
