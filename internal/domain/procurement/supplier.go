package procurement

import "time"

type Supplier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:text;not null;index" json:"name"`
	ContactInfo *string   `gorm:"column:contact_info;type:text" json:"contact_info,omitempty"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Supplier) TableName() string { return "suppliers" }
