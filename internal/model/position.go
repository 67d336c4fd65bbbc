package model

// 岗位状态
const (
	PositionOpen   = "open"   // 在招
	PositionPaused = "paused" // 暂停
	PositionFull   = "full"   // 招满
)

// Position 实习岗位表 — 对应 positions
// 不变量：0 <= PlacedCount <= Capacity，PlacedCount 仅在申请批准时变化
type Position struct {
	PositionID    string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"position_id"`
	Title         string   `gorm:"type:varchar(200);not null"                     json:"title"`
	CompanyName   string   `gorm:"type:varchar(200);not null"                     json:"company_name"`
	Description   string   `gorm:"type:text"                                      json:"description"`
	Requirements  string   `gorm:"type:text"                                      json:"requirements"`
	Location      string   `gorm:"type:varchar(200);not null"                     json:"location"`
	Latitude      float64  `gorm:"not null"                                       json:"latitude"`
	Longitude     float64  `gorm:"not null"                                       json:"longitude"`
	CheckinRadius *float64 `json:"checkin_radius,omitempty"` // 签到半径覆盖（米），空则用全局默认
	Capacity      int      `gorm:"not null;default:1"                             json:"capacity"`
	PlacedCount   int      `gorm:"not null;default:0"                             json:"placed_count"`
	Status        string   `gorm:"type:varchar(20);not null;default:'open'"       json:"status"` // open | paused | full
	PublisherID   string   `gorm:"type:uuid;not null"                             json:"publisher_id"`
	BaseModel

	// 关联
	Publisher *User `gorm:"foreignKey:PublisherID;references:UserID" json:"publisher,omitempty"`
}

// TableName 指定表名
func (Position) TableName() string { return "positions" }

// AcceptingApplications 岗位当前是否可申请
func (p *Position) AcceptingApplications() bool {
	return p.Status == PositionOpen
}
