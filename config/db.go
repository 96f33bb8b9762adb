package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"booking-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func EnvOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := EnvOrDefault("DB_USER", "root")
	pass := EnvOrDefault("DB_PASS", "")
	host := EnvOrDefault("DB_HOST", "127.0.0.1")
	port := EnvOrDefault("DB_PORT", "3306")
	dbName := EnvOrDefault("DB_NAME", "booking_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	)
	return dsn, nil
}

// SeedDatabase inserts a demo hotel with two rooms on an empty database so
// the booking flow is exercisable out of the box.
func SeedDatabase() {
	var hotelCount int64
	DB.Model(&models.Hotel{}).Count(&hotelCount)
	if hotelCount > 0 {
		log.Println("Hotels already seeded")
		return
	}

	breakfast := int64(1500)
	hotel := models.Hotel{
		OwnerID:     EnvOrDefault("SEED_OWNER_ID", "seed-owner"),
		Title:       "Riverside Demo Hotel",
		Description: "Seeded hotel for local development",
		City:        "Bangkok",
		Country:     "TH",
		Rooms: []models.Room{
			{Title: "Standard Double", Description: "Standard double room", RoomPrice: 10000},
			{Title: "Deluxe King", Description: "Deluxe king with breakfast option", RoomPrice: 18000, BreakfastPrice: &breakfast},
		},
	}
	if err := DB.Create(&hotel).Error; err != nil {
		log.Printf("warning: failed to seed demo hotel: %v", err)
		return
	}
	log.Println("Demo hotel seeded")
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// Parent -> child order.
	if err := DB.AutoMigrate(
		&models.Hotel{},
		&models.Room{},
		&models.Booking{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
