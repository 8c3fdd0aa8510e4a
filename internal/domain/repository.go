package domain

type ReportRepository interface {
	SaveReport(report Report)
	GetReport() Report
}
