package waste

import (
	"sort"
	"time"

	"meal-planner/internal/pkg/common"
)

const (
	day         = 24 * time.Hour
	weekWindow  = 7 * day
	monthWindow = 30 * day
	monthDays   = 30
)

// Tracker 單一使用者的減廢狀態：紀錄、成就與累計效益
type Tracker struct {
	logs         []Log
	achievements []Achievement
	totals       Totals
	constants    ImpactConstants
	now          func() time.Time
	newID        func() string
}

// NewTracker 以預設成就建立空的追蹤器
func NewTracker() *Tracker {
	return RestoreTracker(nil, nil)
}

// RestoreTracker 由已儲存的紀錄與成就狀態還原，累計效益由紀錄重新計算
func RestoreTracker(logs []Log, saved []Achievement) *Tracker {
	t := &Tracker{
		achievements: DefaultAchievements(),
		constants:    DefaultImpactConstants,
		now:          time.Now,
		newID:        common.GenerateUUID,
	}

	byID := make(map[string]Achievement, len(saved))
	for _, a := range saved {
		byID[a.ID] = a
	}
	for i, a := range t.achievements {
		if s, ok := byID[a.ID]; ok {
			t.achievements[i].Progress = s.Progress
			t.achievements[i].Completed = s.Completed
			t.achievements[i].DateCompleted = s.DateCompleted
		}
	}

	for _, l := range logs {
		t.logs = append(t.logs, l)
		t.accumulate(l)
	}
	return t
}

func (t *Tracker) accumulate(l Log) {
	t.totals.CO2Saved += l.Impact.CO2Saved
	t.totals.WaterSaved += l.Impact.WaterSaved
	t.totals.MoneySaved += l.Impact.MoneySaved
	t.totals.MealsTracked++
	t.totals.WasteReduced += len(l.SavedItems)
}

// AddLog 新增紀錄並更新成就，回傳新紀錄與本次解鎖的成就
func (t *Tracker) AddLog(in LogInput) (Log, []Achievement) {
	l := Log{
		ID:          t.newID(),
		Date:        in.Date,
		SavedItems:  append([]string{}, in.SavedItems...),
		WastedItems: append([]string{}, in.WastedItems...),
		MealPlanID:  in.MealPlanID,
		Impact:      t.constants.Calculate(in.SavedItems),
	}
	t.logs = append(t.logs, l)
	t.accumulate(l)
	return l, t.updateAchievements()
}

// updateAchievements 進度只增不減，完成狀態一旦達成不再取消
func (t *Tracker) updateAchievements() []Achievement {
	streak := float64(LongestStreak(t.logDates()))
	now := t.now()

	var unlocked []Achievement
	for i := range t.achievements {
		a := &t.achievements[i]

		var progress float64
		switch a.ID {
		case AchievementWasteWarrior, AchievementConsistencyKing:
			progress = streak
		case AchievementClimateChampion:
			progress = t.totals.CO2Saved
		case AchievementWaterGuardian:
			progress = t.totals.WaterSaved
		case AchievementMoneySaver:
			progress = t.totals.MoneySaved
		}
		if progress > a.Progress {
			a.Progress = progress
		}

		if !a.Completed && a.Progress >= a.Target {
			a.Completed = true
			completedAt := now
			a.DateCompleted = &completedAt
			unlocked = append(unlocked, *a)
		}
	}
	return unlocked
}

func (t *Tracker) logDates() []time.Time {
	dates := make([]time.Time, len(t.logs))
	for i, l := range t.logs {
		dates[i] = l.Date
	}
	return dates
}

// Logs 所有紀錄（副本）
func (t *Tracker) Logs() []Log {
	return append([]Log(nil), t.logs...)
}

// Achievements 成就狀態（副本）
func (t *Tracker) Achievements() []Achievement {
	return append([]Achievement(nil), t.achievements...)
}

// Totals 累計效益
func (t *Tracker) Totals() Totals {
	return t.totals
}

// LongestStreak 以 UTC 日期計算最長連續天數
func LongestStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		u := d.UTC()
		key := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, key)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == day {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 1
	}
	return longest
}

// WeeklyStats 統計 [now-7d, now] 的紀錄
func (t *Tracker) WeeklyStats(now time.Time) WeeklyStats {
	from := now.Add(-weekWindow)
	var s WeeklyStats
	for _, l := range t.logs {
		if l.Date.Before(from) || l.Date.After(now) {
			continue
		}
		s.SavedItems += len(l.SavedItems)
		s.WastedItems += len(l.WastedItems)
		s.CO2Saved += l.Impact.CO2Saved
		s.WaterSaved += l.Impact.WaterSaved
		s.MoneySaved += l.Impact.MoneySaved
	}
	return s
}

// MonthlyProgress 統計 [now-30d, now] 並與前 30 天比較
func (t *Tracker) MonthlyProgress(now time.Time) MonthlyProgress {
	monthAgo := now.Add(-monthWindow)
	previousStart := monthAgo.Add(-monthWindow)

	var p MonthlyProgress
	var current, previous int
	daysLogged := make(map[string]struct{})
	for _, l := range t.logs {
		switch {
		case !l.Date.Before(monthAgo) && !l.Date.After(now):
			p.TotalLogs++
			current += len(l.SavedItems)
			daysLogged[l.Date.UTC().Format("2006-01-02")] = struct{}{}
		case !l.Date.Before(previousStart) && l.Date.Before(monthAgo):
			previous += len(l.SavedItems)
		}
	}

	p.ConsistencyPercentage = float64(len(daysLogged)) / monthDays * 100
	if previous == 0 {
		p.Improvement = 100
	} else {
		p.Improvement = float64(current-previous) / float64(previous) * 100
	}
	return p
}
