// Package credit 提供学生信用分的纯聚合计算。
// 考核基数（总工作日、总周数）由调用方显式传入，本包不读取任何全局状态。
package credit

import "math"

// Baseline 无已批准实习申请时的基准信用分
const Baseline = 100.0

// Input 信用分计算输入：针对单一已批准实习岗位的历史统计
type Input struct {
	NormalCheckins   int     // 正常签到次数
	AbnormalCheckins int     // 异常签到次数
	ReportCount      int     // 已提交周报数
	AvgReportScore   float64 // 周报平均分（无已评分周报时为0）
	TotalWorkDays    int     // 实习期总工作日（考核基数）
	TotalWeeks       int     // 实习期总周数（考核基数）
}

// Score 计算信用分，结果在 [0,100]，保留2位小数。
// 四个加权分量：出勤率30分 + 周报提交率30分 + 周报平均分30分 + 异常扣分项10分，
// 异常签到每次扣1分，最多扣10分。
func Score(in Input) float64 {
	var attendanceRate float64
	if in.TotalWorkDays > 0 {
		attendanceRate = math.Min(float64(in.NormalCheckins)/float64(in.TotalWorkDays), 1.0)
	}
	attendanceScore := attendanceRate * 30

	var reportRate float64
	if in.TotalWeeks > 0 {
		reportRate = math.Min(float64(in.ReportCount)/float64(in.TotalWeeks), 1.0)
	}
	reportScore := reportRate * 30

	var qualityRate float64
	if in.AvgReportScore > 0 {
		qualityRate = in.AvgReportScore / 100.0
	}
	qualityScore := qualityRate * 30

	penalty := float64(in.AbnormalCheckins)
	if penalty > 10 {
		penalty = 10
	}
	penaltyScore := 10 - penalty

	total := attendanceScore + reportScore + qualityScore + penaltyScore
	total = math.Max(0, math.Min(100, total))

	return math.Round(total*100) / 100
}
