// ABOUTME: Pump goroutine draining the ring buffer into the sink
// ABOUTME: Releases the session lock around blocking device writes
package engine

// pump runs for the lifetime of one open/close cycle. It transfers
// bounded chunks from the ring buffer to the sink, blocking on the
// session condition variable when the stream is paused or the buffer is
// empty, and recovering the device in place on transient write errors.
func (s *Session) pump() {
	defer close(s.pumpDone)

	s.mu.Lock()
	s.pumpRunning = true
	s.cond.Broadcast()

	for !s.quit {
		if s.paused || s.prebuffer {
			s.cond.Wait()
			continue
		}

		chunk := s.ring.BeginRead(s.chunkLimit())
		if len(chunk) == 0 {
			s.cond.Wait()
			continue
		}

		// The device write may block for the duration of a hardware
		// period; the in-flight mark keeps flush honest while the lock
		// is released.
		s.mu.Unlock()
		frames, err := s.snk.WriteFrames(chunk)
		s.mu.Lock()

		n := s.spec.FramesToBytes(frames)
		if err != nil {
			n = 0
			// Errors caused by our own drop/close are expected.
			if !s.quit && !s.paused && !s.prebuffer {
				s.opts.Metrics.underrun()
				if rerr := s.snk.Recover(err); rerr != nil {
					s.log.Error().Err(rerr).Int("dropped", len(chunk)).
						Msg("device recovery failed, dropping chunk")
					n = len(chunk)
				} else {
					s.opts.Metrics.recovered()
					s.log.Warn().Err(err).Msg("device recovered after write error")
				}
			}
		}

		s.ring.CommitRead(n)
		s.opts.Metrics.occupancy(s.ring.Occupied())
		s.cond.Broadcast()
	}

	s.pumpRunning = false
	s.mu.Unlock()
}

// chunkLimit bounds one pump transfer: a quarter of the buffer rounded
// to whole frames, optionally capped by the delay-measurement chunking
// workaround. The wraparound bound is applied by the ring itself.
func (s *Session) chunkLimit() int {
	limit := s.spec.FramesToBytes(s.spec.BytesToFrames(s.ring.Capacity() / 4))
	if s.opts.DelayChunkMs > 0 {
		if c := s.spec.MillisToBytes(s.opts.DelayChunkMs); c < limit && c > 0 {
			limit = c
		}
	}
	if limit < s.spec.FrameBytes() {
		limit = s.spec.FrameBytes()
	}
	return limit
}
