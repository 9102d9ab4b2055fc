package cache

import (
	"time"
)

// RefreshHour は日次の取り込みが終わる時刻（日本時間）です。
const RefreshHour = 8

// jst は tzdata が無い環境でも使えるよう固定オフセットにフォールバックします。
func jst() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// TimeUntilNextRefresh は now から次の loc における hour 時ちょうどまでの期間を返します。
// ちょうどその時刻の場合は24時間後を返すため、戻り値は常に正です。
func TimeUntilNextRefresh(now time.Time, hour int, loc *time.Location) time.Duration {
	now = now.In(loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// TimeUntilNext8AM は次の午前8時（日本時間）までの期間を返します。
func TimeUntilNext8AM() time.Duration {
	return TimeUntilNextRefresh(time.Now(), RefreshHour, jst())
}
