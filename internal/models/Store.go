package models

import (
	"sort"
	"sync"
	"time"
)

// Store owns every mutable piece of engine state. All access goes
// through its mutex; callers receive deep copies, never live references.
// Compound transitions run inside UpdateUser/UpdateDaily closures so a
// reader can never observe a half-applied mutation.
type Store struct {
	mu            sync.RWMutex
	users         map[int64]*UserProgress
	order         []int64
	voiceSessions map[int64]time.Time
	eventsMessage string
	totalMessages int64
	daily         *DailyStats
	history       map[string]*DailySummary
}

const defaultEventsMessage = "No upcoming events."

func NewStore() *Store {
	return &Store{
		users:         make(map[int64]*UserProgress),
		voiceSessions: make(map[int64]time.Time),
		eventsMessage: defaultEventsMessage,
		daily:         NewDailyStats(""),
		history:       make(map[string]*DailySummary),
	}
}

// UpdateUser runs fn against the user's progress under the write lock,
// creating the entry on first touch.
func (s *Store) UpdateUser(id int64, fn func(*UserProgress)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		u = NewUserProgress()
		s.users[id] = u
		s.order = append(s.order, id)
	}
	fn(u)
}

// User returns a copy of the user's progress, zero-valued for a user
// that was never seen.
func (s *Store) User(id int64) UserProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return *u.clone()
	}
	return *NewUserProgress()
}

func (s *Store) HasUser(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}

// UserIDs returns ids in first-seen order. Leaderboard ordering relies
// on this being stable across calls.
func (s *Store) UserIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) Users() map[int64]UserProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copyMap := make(map[int64]UserProgress, len(s.users))
	for id, u := range s.users {
		copyMap[id] = *u.clone()
	}
	return copyMap
}

func (s *Store) StartVoice(id int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voiceSessions[id] = at
}

// EndVoice consumes the user's voice session. The second return is
// false when no session was open.
func (s *Store) EndVoice(id int64) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start, ok := s.voiceSessions[id]
	if ok {
		delete(s.voiceSessions, id)
	}
	return start, ok
}

func (s *Store) OpenVoiceSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.voiceSessions)
}

func (s *Store) EventsMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eventsMessage
}

func (s *Store) SetEventsMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventsMessage = msg
}

func (s *Store) IncTotalMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalMessages++
}

func (s *Store) TotalMessages() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalMessages
}

// EnsureDay rolls the daily stats over when the stored date no longer
// matches today. The previous day is frozen into history exactly once,
// quiet days included, so comparisons see zeros rather than a gap;
// calling again on the same date is a no-op. Returns true when a
// previous day was frozen.
func (s *Store) EnsureDay(today string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureDayLocked(today)
}

func (s *Store) ensureDayLocked(today string) bool {
	if s.daily.Date == today {
		return false
	}
	rolled := false
	if s.daily.Date != "" {
		if _, ok := s.history[s.daily.Date]; !ok {
			s.history[s.daily.Date] = s.daily.Summary()
		}
		rolled = true
	}
	s.daily = NewDailyStats(today)
	return rolled
}

// RollDay performs the date rollover and returns the date and frozen
// summary of the day that ended. ok is false when the date did not
// change or no day had started yet.
func (s *Store) RollDay(today string) (date string, ended *DailySummary, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	date = s.daily.Date
	if !s.ensureDayLocked(today) {
		return "", nil, false
	}
	cp := *s.history[date]
	return date, &cp, true
}

// UpdateDaily applies fn to the current day's counters, rolling over
// first if the date changed.
func (s *Store) UpdateDaily(today string, fn func(*DailyStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureDayLocked(today)
	fn(s.daily)
}

func (s *Store) Daily() DailyStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.daily.clone()
}

// HistorySummary returns the frozen entry for a date, or nil when the
// day was never recorded (e.g. downtime).
func (s *Store) HistorySummary(date string) *DailySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sum, ok := s.history[date]; ok {
		cp := *sum
		return &cp
	}
	return nil
}

func (s *Store) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// Totals returns the all-time aggregates used by the info command and
// the daily report.
func (s *Store) Totals() (xp float64, voiceMinutes float64, prestiges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		xp += u.Xp
		voiceMinutes += u.VoiceMinutes
		prestiges += u.Prestige
	}
	return xp, voiceMinutes, prestiges
}

// GetSnapshot serializes the full durable state into the on-disk schema.
func (s *Store) GetSnapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := NewSnapshot()
	for id, u := range s.users {
		key := formatUserID(id)
		snap.UserXp[key] = u.Xp
		snap.UserLevel[key] = u.Level
		snap.UserPrestige[key] = u.Prestige
		snap.UserDailyStreak[key] = u.DailyStreak
		if u.LastDailyDate != "" {
			snap.UserLastDaily[key] = u.LastDailyDate
		}
		snap.UserMessageCount[key] = u.MessageCount
		snap.UserVoiceTime[key] = u.VoiceMinutes
		snap.UserAchievements[key] = u.AchievementList()
	}
	snap.EventsMessage = s.eventsMessage
	snap.TotalServerMessages = s.totalMessages

	active := make([]string, 0, len(s.daily.ActiveUsers))
	for id := range s.daily.ActiveUsers {
		active = append(active, formatUserID(id))
	}
	sort.Strings(active)
	snap.DailyStats = &DailyStatsSnapshot{
		Date:        s.daily.Date,
		Messages:    s.daily.Messages,
		XpGained:    s.daily.XpGained,
		VoiceTime:   s.daily.VoiceMinutes,
		ActiveUsers: active,
		LevelUps:    s.daily.LevelUps,
		Prestiges:   s.daily.Prestiges,
		NewMembers:  s.daily.NewMembers,
	}
	for date, sum := range s.history {
		cp := *sum
		snap.DailyHistory[date] = &cp
	}
	return snap
}

// PutSnapshot replaces the store's durable state with the snapshot
// contents. Missing keys default to zero values; set-valued fields are
// deduplicated. Iteration order of the snapshot maps is not stable, so
// the insertion order is rebuilt as ascending user id.
func (s *Store) PutSnapshot(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]*UserProgress)
	s.order = nil

	touch := func(key string) *UserProgress {
		id, ok := parseUserID(key)
		if !ok {
			return nil
		}
		u, exists := s.users[id]
		if !exists {
			u = NewUserProgress()
			s.users[id] = u
		}
		return u
	}

	for key, xp := range snap.UserXp {
		if u := touch(key); u != nil {
			u.Xp = xp
		}
	}
	for key, level := range snap.UserLevel {
		if u := touch(key); u != nil {
			u.Level = level
		}
	}
	for key, prestige := range snap.UserPrestige {
		if u := touch(key); u != nil {
			u.Prestige = prestige
		}
	}
	for key, streak := range snap.UserDailyStreak {
		if u := touch(key); u != nil {
			u.DailyStreak = streak
		}
	}
	for key, date := range snap.UserLastDaily {
		if u := touch(key); u != nil {
			u.LastDailyDate = date
		}
	}
	for key, count := range snap.UserMessageCount {
		if u := touch(key); u != nil {
			u.MessageCount = count
		}
	}
	for key, minutes := range snap.UserVoiceTime {
		if u := touch(key); u != nil {
			u.VoiceMinutes = minutes
		}
	}
	for key, list := range snap.UserAchievements {
		if u := touch(key); u != nil {
			for _, id := range list {
				u.Grant(id)
			}
		}
	}

	for id := range s.users {
		s.order = append(s.order, id)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })

	s.eventsMessage = snap.EventsMessage
	if s.eventsMessage == "" {
		s.eventsMessage = defaultEventsMessage
	}
	s.totalMessages = snap.TotalServerMessages

	s.daily = NewDailyStats("")
	if ds := snap.DailyStats; ds != nil {
		s.daily = NewDailyStats(ds.Date)
		s.daily.Messages = ds.Messages
		s.daily.XpGained = ds.XpGained
		s.daily.VoiceMinutes = ds.VoiceTime
		s.daily.LevelUps = ds.LevelUps
		s.daily.Prestiges = ds.Prestiges
		s.daily.NewMembers = ds.NewMembers
		for _, key := range ds.ActiveUsers {
			if id, ok := parseUserID(key); ok {
				s.daily.ActiveUsers[id] = struct{}{}
			}
		}
	}

	s.history = make(map[string]*DailySummary, len(snap.DailyHistory))
	for date, sum := range snap.DailyHistory {
		if sum == nil {
			continue
		}
		cp := *sum
		s.history[date] = &cp
	}
}
