package storage

import (
	"time"

	"gorm.io/gorm"
)

// RaceResult is one finished race
type RaceResult struct {
	gorm.Model
	Car       string  `gorm:"size:64;index"`
	Kart      string  `gorm:"size:16"`
	Scene     string  `gorm:"size:64;index"`
	Laps      int
	TotalTime float64 // Seconds
	BestLap   float64 // Seconds
	Finished  time.Time
	LapTimes  []LapRecord `gorm:"foreignKey:RaceID"`
}

// LapRecord is one completed lap; RaceID is zero until the race finishes
type LapRecord struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	RaceID    uint   `gorm:"index"`
	Session   string `gorm:"size:36;index"`
	Car       string `gorm:"size:64;index"`
	Kart      string `gorm:"size:16"`
	Scene     string `gorm:"size:64;index"`
	Lap       int
	LapTime   float64 `gorm:"index"`
	TotalTime float64
}
