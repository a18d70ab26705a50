package models

// User-facing advisories, in the dashboard's locale.
const (
	AdvisoryBackendUnavailable = "無法連接到後端伺服器"
	AdvisoryNoSnapshots        = "目前沒有資料，或無法讀取資料來源。"
	AdvisorySaveFailed         = "儲存失敗"
	MessageWatchlistSaved      = "自選股清單已儲存！"
	MessageStrategySaved       = "策略參數已儲存！"
)
