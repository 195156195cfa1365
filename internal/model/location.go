package model

// Location 上课地点表，对应 location
//
// location_id 为合成代理键；(room, building) 在正规化时保证唯一。
// 教室异动只会新增地点，不会修改或删除旧地点。
type Location struct {
	LocationID int64  `gorm:"column:location_id;primaryKey;autoIncrement" json:"location_id"`
	Room       string `gorm:"column:room;type:varchar(20)"                 json:"room"`
	Building   string `gorm:"column:building;type:varchar(20)"             json:"building"`
}

// TableName 指定表名
func (Location) TableName() string { return "location" }

// Key 地点唯一性依据
func (l *Location) Key() LocationKey {
	return LocationKey{Room: l.Room, Building: l.Building}
}
