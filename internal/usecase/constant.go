package usecase

// User-facing messages. The assistant answers Traditional Chinese speakers, so
// every string that can reach the end user lives here.
const (
	MsgAuthFailure             = "驗證失敗。"
	MsgMissingParameter        = "抱歉，缺少必要資訊：%s，請再提供一次。"
	MsgMissingParameterGeneric = "抱歉，缺少必要資訊，請再提供一次。"
	MsgVendorUnavailable       = "目前無法取得資訊，請稍後再試。"
	MsgUnsupportedOperation    = "不支援的功能：%s"
	MsgUnsupportedGeneric      = "不支援的功能。"
	MsgPersistenceFailure      = "抱歉，記憶存取失敗，請稍後再試。"
	MsgInvalidInput            = "抱歉，輸入格式不正確。"
	MsgInternal                = "功能執行異常，請稍後再試。"
)

// Conversation turn messages.
const (
	MsgAgentEmptyAnswer = "抱歉，秘書這題沒給出答案。"
	MsgAgentBusy        = "系統忙碌中，請稍後再試"

	KeywordTripRules   = "行程規劃使用規則"
	KeywordPDFRules    = "PDF使用規則"
	KeywordDetailRules = "地點詳情查詢規則"

	MsgTripRules   = "請依照格式輸入：\n地區：\n天數：\n人數："
	MsgPDFRules    = "請先確認行程草案，確認完請說:生成PDF"
	MsgDetailRules = "請依照格式輸入：\n地點+詳細資訊\n例:台北車站詳細資訊"
)

// Travel tool messages.
const (
	MsgRouteNotFound      = "找不到路線"
	MsgPlaceNotFound      = "找不到 '%s'"
	MsgLocationNotFound   = "找不到地點：%s，請嘗試輸入更準確的地標名稱。"
	MsgHotelNotFound      = "找到地點%s，但查無飯店資料。"
	MsgHotelNoLocation    = "找不到 '%s' 相關的飯店地點。"
	MsgUnknownPlace       = "未知地點"
	MsgNoPhone            = "無電話"
	MsgNoAddress          = "無地址"
	MsgNoRating           = "無"
	MsgNoOpeningInfo      = "無營業資訊"
	MsgOpenNow            = "🟢 營業中"
	MsgClosedNow          = "🔴 已打烊"
	MsgNoDetails          = "(無詳情)"
	MsgUnknownWeather     = "未知"
	MsgUnknownHotel       = "未知飯店"
	MsgNotAvailable       = "暫無"
	MsgWeatherAttribution = "座標定位由 Google 提供，氣象數據由 OpenWeather 提供。祝您旅途愉快！"
)

// Travel tool answer layouts.
const (
	FmtDirections = "🚗 導航建議 (%s)：\n• 距離: %s\n• 時間: %s\n• 路線: %s\n• 連結: %s"
	FmtPlace      = "名稱: %s (%s星)\nID: %s\n電話: %s\n地址: %s\n狀態: %s\n連結: %s"
	FmtOtherPlace = "- %s (%s星)\n  ID: %s\n  地址: %s\n  (連結: %s)"
	FmtWeather    = "🌡️ %s 目前天氣：\n• 狀態: %s\n• 氣溫: %s°C (體感 %s°C)\n• 濕度: %d%%"
	FmtLocalTime  = "• 當地時間: %s (%s)"
	FmtReminder   = "• 提醒: %s"
	FmtHotelIntro = "為您找到%s附近的推薦飯店："
	FmtHotel      = "- %s (評分: %s)\n⭐ 價格 %s\n網址 %s"

	HeadingBestResult   = "【最佳結果】"
	HeadingOtherResults = "【其他結果】"
	MsgNoPlaceID        = "無ID"
)

// Itinerary document messages.
const (
	MsgItineraryMissing    = "❌ 錯誤：未接收到行程數據。"
	MsgItineraryFailed     = "❌ PDF 生成失敗，請確認行程內容後再試一次。"
	MsgItineraryCardSent   = "✅ 行程卡片已發送至您的 LINE！"
	MsgItineraryCardFailed = "✅ PDF 已生成，但卡片發送失敗。請點此下載：%s"
	MsgItineraryLink       = "✅ PDF 已成功生成！\n[📄 點擊此處下載您的行程檔案](%s)"
	DefaultItineraryTitle  = "旅遊行程"
	DefaultCardTitle       = "您的專屬行程"
	CardAltText            = "您的行程 PDF 已準備好！請在一小時內下載完成~"
	CardHeading            = "行程規劃完成!"
	CardTextFormat         = "主題：%s"
	CardButtonLabel        = "📄 點我下載 PDF"
	maxCardTitleRunes      = 50
)

// Memory messages.
const (
	MemoryStatusFound    = "found"
	MemoryStatusNotFound = "not_found"
	MemoryStatusSuccess  = "success"

	MsgMemoryNotFound = "這是第一次對話，沒有舊紀錄。"
	MsgMemorySaved    = "記憶已儲存。"
)
