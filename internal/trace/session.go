/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package trace

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	applog "stageview/internal/log"
	"stageview/internal/vector"
	"stageview/internal/viewport"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Session is one recorded interaction run with the geometry it started from.
type Session struct {
	ID        string
	Scene     string
	Content   vector.Size
	Container vector.Size
	Created   time.Time
}

// NewSession registers a session and returns it.
func (s *Store) NewSession(ctx context.Context, scene string, content, container vector.Size) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Scene:     scene,
		Content:   content,
		Container: container,
		Created:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, scene, content_w, content_h, container_w, container_h, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, scene, content.W, content.H, container.W, container.H, sess.Created.Format(timeLayout))
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	s.log.Debug("session started", slog.String("session", sess.ID))
	return sess, nil
}

// Session loads a session by id.
func (s *Store) Session(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, scene, content_w, content_h, container_w, container_h, created_at FROM sessions WHERE id=?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	return sess, err
}

// Latest returns the most recently created session.
func (s *Store) Latest(ctx context.Context) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, scene, content_w, content_h, container_w, container_h, created_at FROM sessions ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoSession
	}
	return sess, err
}

// Sessions lists sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scene, content_w, content_h, container_w, container_h, created_at FROM sessions ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanSession(sc scanner) (Session, error) {
	var (
		sess    Session
		created string
	)
	if err := sc.Scan(&sess.ID, &sess.Scene, &sess.Content.W, &sess.Content.H, &sess.Container.W, &sess.Container.H, &created); err != nil {
		return Session{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Session{}, fmt.Errorf("session %s created_at: %w", sess.ID, err)
	}
	sess.Created = t
	return sess, nil
}

// Record appends ev to the session.
func (s *Store) Record(ctx context.Context, sessionID string, ev viewport.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.Kind(), err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (session_id, seq, kind, payload, at_ms)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE session_id=?), ?, ?, ?)`,
		sessionID, sessionID, ev.Kind(), string(payload), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("record %s: %w", ev.Kind(), err)
	}
	return nil
}

// Events returns the session's events in recorded order.
func (s *Store) Events(ctx context.Context, sessionID string) ([]viewport.Event, error) {
	if _, err := s.Session(ctx, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT kind, payload FROM events WHERE session_id=? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()
	var out []viewport.Event
	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, err
		}
		ev, err := Decode(kind, []byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Decode rebuilds an event from its stored kind and JSON payload.
func Decode(kind string, payload []byte) (viewport.Event, error) {
	var ev viewport.Event
	var err error
	switch kind {
	case viewport.KindResize:
		ev, err = decodeAs[viewport.Resize](payload)
	case viewport.KindWheel:
		ev, err = decodeAs[viewport.WheelEvent](payload)
	case viewport.KindScroll:
		ev, err = decodeAs[viewport.ScrollEvent](payload)
	case viewport.KindPinch:
		ev, err = decodeAs[viewport.PinchEvent](payload)
	case viewport.KindPointerDown:
		ev, err = decodeAs[viewport.PointerDown](payload)
	case viewport.KindPointerMove:
		ev, err = decodeAs[viewport.PointerMove](payload)
	case viewport.KindPointerUp:
		ev, err = decodeAs[viewport.PointerUp](payload)
	case viewport.KindPointerEnter:
		ev = viewport.PointerEnter{}
	case viewport.KindPointerLeave:
		ev = viewport.PointerLeave{}
	case viewport.KindDrag:
		ev, err = decodeAs[viewport.DragEvent](payload)
	case viewport.KindDragEnd:
		ev, err = decodeAs[viewport.DragEnd](payload)
	case viewport.KindFocus:
		ev, err = decodeAs[viewport.FocusRequest](payload)
	case viewport.KindStep:
		ev, err = decodeAs[viewport.StepEvent](payload)
	case viewport.KindReset:
		ev = viewport.ResetEvent{}
	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return ev, nil
}

func decodeAs[T viewport.Event](payload []byte) (viewport.Event, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Replay builds a controller from the session geometry, feeds it every
// recorded event in order and returns it.
func (s *Store) Replay(ctx context.Context, sessionID string, opts viewport.Options) (*viewport.Controller, error) {
	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	events, err := s.Events(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c := viewport.NewStage(sess.Content, sess.Container, opts)
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return c, fmt.Errorf("replay interrupted at event %d: %w", i, err)
		}
		c.Handle(ev)
	}
	applog.WithOperation(s.log, "replay").DebugContext(applog.WithSession(ctx, sessionID), "replayed",
		slog.Int("events", len(events)), slog.String("transform", c.Transform().String()))
	return c, nil
}

// Recorder forwards events to a controller and records each one.
type Recorder struct {
	store   *Store
	session string
	ctrl    *viewport.Controller
	ctx     context.Context
	log     *slog.Logger
}

// NewRecorder records events handled through it into session.
func NewRecorder(ctx context.Context, store *Store, session string, ctrl *viewport.Controller) *Recorder {
	return &Recorder{
		store:   store,
		session: session,
		ctrl:    ctrl,
		ctx:     applog.WithSession(ctx, session),
		log:     applog.WithComponent("trace"),
	}
}

// Handle records ev and then dispatches it. A failed write is logged and
// does not block the interaction.
func (r *Recorder) Handle(ev viewport.Event) {
	if err := r.store.Record(r.ctx, r.session, ev); err != nil {
		r.log.WarnContext(r.ctx, "trace write failed", slog.Any("err", err))
	}
	r.ctrl.Handle(ev)
}

// Session returns the id events are recorded under.
func (r *Recorder) Session() string { return r.session }
