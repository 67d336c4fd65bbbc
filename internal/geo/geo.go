// Package geo 提供签到定位的纯计算：大圆距离与时段/半径分类。
// 所有策略（半径、工作时段）由调用方显式传入，本包不读取任何全局状态。
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// earthRadius 地球半径（米）
const earthRadius = 6371000.0

// ErrNotInWindow 当前时间早于签到开始时间，拒绝分类（不产生签到记录）
var ErrNotInWindow = errors.New("当前非签到时段")

// 签到分类状态
const (
	StatusNormal   = "normal"
	StatusLate     = "late"
	StatusAbnormal = "abnormal"
)

// Distance 使用 Haversine 公式计算两点之间的大圆距离（米）
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// DayTime 本地时钟时间（时:分），用于表示每日签到时段的边界
type DayTime struct {
	Hour   int
	Minute int
}

// ParseDayTime 解析 "HH:MM" 格式的时钟时间
func ParseDayTime(s string) (DayTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return DayTime{}, fmt.Errorf("时间格式不正确，应为 HH:MM: %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return DayTime{}, fmt.Errorf("小时无效: %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return DayTime{}, fmt.Errorf("分钟无效: %q", s)
	}
	return DayTime{Hour: hour, Minute: minute}, nil
}

// minutes 午夜起的分钟数
func (t DayTime) minutes() int {
	return t.Hour*60 + t.Minute
}

// Result 签到分类结果
type Result struct {
	Status      string // normal | late | abnormal
	LateMinutes int    // 迟到分钟数（向下取整），仅 late 时非零
	Reason      string // 异常/迟到原因，normal 时为空
}

// Classify 按距离与时段对一次签到分类。
// 早于时段开始：返回 ErrNotInWindow；
// 距离超出半径：abnormal（距离判定优先于迟到判定）；
// 晚于时段结束：late，并计算迟到分钟数；
// 其余情况：normal。
func Classify(distance, allowedRadius float64, now time.Time, windowStart, windowEnd DayTime) (Result, error) {
	nowMinutes := now.Hour()*60 + now.Minute()

	if nowMinutes < windowStart.minutes() {
		return Result{}, ErrNotInWindow
	}

	if distance > allowedRadius {
		return Result{
			Status: StatusAbnormal,
			Reason: fmt.Sprintf("超出签到范围，当前距离%.2f米，允许%g米内", distance, allowedRadius),
		}, nil
	}

	if nowMinutes > windowEnd.minutes() {
		// 迟到分钟数按整分钟向下取整，秒数不计
		late := nowMinutes - windowEnd.minutes()
		return Result{
			Status:      StatusLate,
			LateMinutes: late,
			Reason:      fmt.Sprintf("迟到 %d 分钟", late),
		}, nil
	}

	return Result{Status: StatusNormal}, nil
}
