package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"

	"hospital-ops/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.ApplySchema(context.Background(), pool); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	log.Println("schema applied")

	gofakeit.Seed(time.Now().UnixNano())

	deptIDs, err := seedDepartments(context.Background(), pool)
	if err != nil {
		log.Fatalf("seed departments: %v", err)
	}
	if err := seedDoctors(context.Background(), pool, deptIDs, 50); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 5000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedRooms(context.Background(), pool, 120); err != nil {
		log.Fatalf("seed rooms: %v", err)
	}

	log.Println("seed complete")
}

var departments = []string{
	"Cardiology",
	"Dermatology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

func seedDepartments(ctx context.Context, pool *pgxpool.Pool) ([]int64, error) {
	log.Printf("seeding %d departments", len(departments))

	ids := make([]int64, 0, len(departments))
	for _, name := range departments {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO departments (name)
			VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	log.Println("departments seeded")
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, deptIDs []int64, count int) error {
	log.Printf("seeding %d doctors", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		deptID := deptIDs[gofakeit.Number(0, len(deptIDs)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (first_name, last_name, specialization, department_id)
			VALUES ($1, $2, $3, $4)
		`, gofakeit.FirstName(), gofakeit.LastName(), departments[gofakeit.Number(0, len(departments)-1)], deptID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("doctors seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 500

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			birth := gofakeit.DateRange(
				time.Date(1930, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
			)

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (first_name, last_name, birth_date, phone, address)
				VALUES ($1, $2, $3, $4, $5)
			`, gofakeit.FirstName(), gofakeit.LastName(), birth, gofakeit.Phone(), gofakeit.Address().Address)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}

func seedRooms(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d rooms", count)

	roomTypes := []struct {
		name     string
		capacity int
	}{
		{"SINGLE", 1},
		{"DOUBLE", 2},
		{"WARD", 6},
		{"ICU", 1},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		floor := i/40 + 1
		rt := roomTypes[gofakeit.Number(0, len(roomTypes)-1)]
		number := gofakeit.Numerify("###") + "-" + gofakeit.LetterN(1)

		_, err := tx.Exec(ctx, `
			INSERT INTO rooms (room_number, floor, room_type, capacity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (room_number) DO NOTHING
		`, number, floor, rt.name, rt.capacity)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("rooms seeded")
	return nil
}
