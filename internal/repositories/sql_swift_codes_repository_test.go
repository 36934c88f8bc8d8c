package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zdziszkee/swiftcodes/internal/database"
	"github.com/zdziszkee/swiftcodes/internal/models"
	repo "github.com/zdziszkee/swiftcodes/internal/repositories"
)

var swiftCodeColumns = []string{"swift_code", "bank_name", "address", "country_iso2", "country_name", "is_headquarter", "swift_code_base"}

var _ = Describe("SQLSwiftCodeRepository", func() {
	var (
		mockDB     *sql.DB
		mock       sqlmock.Sqlmock
		repository repo.SwiftCodeRepository
		ctx        context.Context
		tableName  = "swift_catalog.default_schema.swift_codes"
		sampleCode *models.SwiftCode
		branchCode *models.SwiftCode
	)

	q := regexp.QuoteMeta

	BeforeEach(func() {
		var err error
		mockDB, mock, err = sqlmock.New()
		Expect(err).NotTo(HaveOccurred())

		db := &database.Database{DB: mockDB, Config: database.Config{
			Type:      database.TypeTrino,
			Catalog:   "swift_catalog",
			Schema:    "default_schema",
			TableName: "swift_codes",
		}}
		repository = repo.NewSQLSwiftCodeRepository(db)
		ctx = context.Background()

		sampleCode = &models.SwiftCode{
			SwiftCode:     "AAAABBBXXX",
			BankName:      "Bank A",
			Address:       "Addr",
			CountryISO2:   "US",
			CountryName:   "USA",
			IsHeadquarter: true,
			SwiftCodeBase: "AAAABBBX",
		}
		branchCode = &models.SwiftCode{
			SwiftCode:     "AAAABBBXYYY",
			BankName:      "Bank A Branch",
			Address:       "Branch Addr",
			CountryISO2:   "US",
			CountryName:   "USA",
			IsHeadquarter: false,
			SwiftCodeBase: "AAAABBBX",
		}
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mockDB.Close()
	})

	rowsOf := func(codes ...*models.SwiftCode) *sqlmock.Rows {
		rows := sqlmock.NewRows(swiftCodeColumns)
		for _, c := range codes {
			hq := 0
			if c.IsHeadquarter {
				hq = 1
			}
			rows.AddRow(c.SwiftCode, c.BankName, c.Address, c.CountryISO2, c.CountryName, hq, c.SwiftCodeBase)
		}
		return rows
	}

	Describe("GetByCode", func() {
		It("should return the row for an exact code", func() {
			mock.ExpectQuery(q("SELECT swift_code, bank_name, address, country_iso2, country_name, is_headquarter, swift_code_base FROM " + tableName + " WHERE swift_code = ?")).
				WithArgs("AAAABBBXXX").
				WillReturnRows(rowsOf(sampleCode))

			got, err := repository.GetByCode(ctx, "AAAABBBXXX")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(sampleCode))
		})

		It("should pass the code through without changing its case", func() {
			mock.ExpectQuery(q("WHERE swift_code = ?")).
				WithArgs("aaaabbbxxx").
				WillReturnRows(sqlmock.NewRows(swiftCodeColumns))

			_, err := repository.GetByCode(ctx, "aaaabbbxxx")
			Expect(err).To(Equal(repo.ErrNotFound))
		})

		It("should wrap database errors", func() {
			mock.ExpectQuery(q("WHERE swift_code = ?")).
				WithArgs("AAAABBBXXX").
				WillReturnError(errors.New("connection reset"))

			_, err := repository.GetByCode(ctx, "AAAABBBXXX")
			Expect(err).To(MatchError(ContainSubstring("trino query failed")))
			Expect(errors.Is(err, repo.ErrNotFound)).To(BeFalse())
		})
	})

	Describe("ListByCountry", func() {
		It("should return all rows of the country", func() {
			mock.ExpectQuery(q("FROM " + tableName + " WHERE country_iso2 = ?")).
				WithArgs("US").
				WillReturnRows(rowsOf(sampleCode, branchCode))

			got, err := repository.ListByCountry(ctx, "US")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]models.SwiftCode{*sampleCode, *branchCode}))
		})

		It("should return an empty result when nothing matches", func() {
			mock.ExpectQuery(q("WHERE country_iso2 = ?")).
				WithArgs("PL").
				WillReturnRows(sqlmock.NewRows(swiftCodeColumns))

			got, err := repository.ListByCountry(ctx, "PL")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		})

		It("should report scan failures", func() {
			mock.ExpectQuery(q("WHERE country_iso2 = ?")).
				WithArgs("US").
				WillReturnRows(sqlmock.NewRows([]string{"swift_code"}).AddRow("AAAABBBXXX"))

			_, err := repository.ListByCountry(ctx, "US")
			Expect(err).To(MatchError(ContainSubstring("trino scan failed")))
		})
	})

	Describe("ListBranches", func() {
		It("should exclude the headquarter code", func() {
			mock.ExpectQuery(q("WHERE swift_code_base = ? AND swift_code <> ?")).
				WithArgs("AAAABBBX", "AAAABBBXXX").
				WillReturnRows(rowsOf(branchCode))

			got, err := repository.ListBranches(ctx, "AAAABBBX", "AAAABBBXXX")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].SwiftCode).To(Equal("AAAABBBXYYY"))
			Expect(got[0].IsHeadquarter).To(BeFalse())
		})
	})

	Describe("ListFirst", func() {
		It("should order by code and limit the result", func() {
			mock.ExpectQuery(q("FROM " + tableName + " ORDER BY swift_code ASC LIMIT 5")).
				WillReturnRows(rowsOf(sampleCode, branchCode))

			got, err := repository.ListFirst(ctx, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
		})
	})

	Describe("Insert", func() {
		insertQuery := "INSERT INTO swift_catalog.default_schema.swift_codes (swift_code, bank_name, address, country_iso2, country_name, is_headquarter, swift_code_base) VALUES (?, ?, ?, ?, ?, ?, ?)"
		existsQuery := "SELECT swift_code FROM swift_catalog.default_schema.swift_codes WHERE swift_code IN (?)"

		expectAbsent := func(code string) {
			mock.ExpectQuery(q(existsQuery)).WithArgs(code).WillReturnRows(sqlmock.NewRows([]string{"swift_code"}))
		}

		It("should store the headquarter flag as 1", func() {
			expectAbsent("AAAABBBXXX")
			mock.ExpectExec(q(insertQuery)).
				WithArgs("AAAABBBXXX", "Bank A", "Addr", "US", "USA", 1, "AAAABBBX").
				WillReturnResult(sqlmock.NewResult(0, 1))

			Expect(repository.Insert(ctx, sampleCode)).To(Succeed())
		})

		It("should store a branch flag as 0", func() {
			expectAbsent("AAAABBBXYYY")
			mock.ExpectExec(q(insertQuery)).
				WithArgs("AAAABBBXYYY", "Bank A Branch", "Branch Addr", "US", "USA", 0, "AAAABBBX").
				WillReturnResult(sqlmock.NewResult(0, 1))

			Expect(repository.Insert(ctx, branchCode)).To(Succeed())
		})

		It("should reject a code that is already stored", func() {
			mock.ExpectQuery(q(existsQuery)).
				WithArgs("AAAABBBXXX").
				WillReturnRows(sqlmock.NewRows([]string{"swift_code"}).AddRow("AAAABBBXXX"))

			Expect(repository.Insert(ctx, sampleCode)).To(MatchError(repo.ErrDuplicate))
		})

		It("should let only one of two concurrent inserts of a code through", func() {
			expectAbsent("AAAABBBXXX")
			mock.ExpectExec(q(insertQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectQuery(q(existsQuery)).
				WithArgs("AAAABBBXXX").
				WillReturnRows(sqlmock.NewRows([]string{"swift_code"}).AddRow("AAAABBBXXX"))

			results := make(chan error, 2)
			for range 2 {
				go func() {
					defer GinkgoRecover()
					results <- repository.Insert(ctx, sampleCode)
				}()
			}

			var errs []error
			for range 2 {
				errs = append(errs, <-results)
			}
			Expect(errs).To(ConsistOf(BeNil(), MatchError(repo.ErrDuplicate)))
		})

		It("should report a failing duplicate check", func() {
			mock.ExpectQuery(q(existsQuery)).WillReturnError(errors.New("query error"))

			err := repository.Insert(ctx, sampleCode)
			Expect(err).To(MatchError(ContainSubstring("trino duplicate check failed")))
		})

		It("should wrap database errors during insertion", func() {
			expectAbsent("AAAABBBXXX")
			mock.ExpectExec(q(insertQuery)).
				WillReturnError(errors.New("insert error"))

			err := repository.Insert(ctx, sampleCode)
			Expect(err).To(MatchError(ContainSubstring("trino insert failed")))
		})
	})

	Describe("DeleteByCode", func() {
		It("should report the number of removed rows", func() {
			mock.ExpectExec(q("DELETE FROM " + tableName + " WHERE swift_code = ?")).
				WithArgs("AAAABBBXXX").
				WillReturnResult(sqlmock.NewResult(0, 1))

			deleted, err := repository.DeleteByCode(ctx, "AAAABBBXXX")
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeEquivalentTo(1))
		})

		It("should report zero when nothing matched", func() {
			mock.ExpectExec(q("DELETE FROM " + tableName + " WHERE swift_code = ?")).
				WithArgs("MISSING00").
				WillReturnResult(sqlmock.NewResult(0, 0))

			deleted, err := repository.DeleteByCode(ctx, "MISSING00")
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeZero())
		})

		It("should wrap database errors", func() {
			mock.ExpectExec(q("DELETE FROM")).
				WillReturnError(errors.New("delete error"))

			_, err := repository.DeleteByCode(ctx, "AAAABBBXXX")
			Expect(err).To(MatchError(ContainSubstring("trino delete failed")))
		})
	})

	Describe("InsertBatch", func() {
		existing := func(codes ...string) *sqlmock.Rows {
			rows := sqlmock.NewRows([]string{"swift_code"})
			for _, c := range codes {
				rows.AddRow(c)
			}
			return rows
		}

		It("should insert all rows in one statement", func() {
			mock.ExpectQuery(q("SELECT swift_code FROM " + tableName + " WHERE swift_code IN (?, ?)")).
				WithArgs("AAAABBBXXX", "AAAABBBXYYY").
				WillReturnRows(existing())
			mock.ExpectExec(q("INSERT INTO " + tableName + " (swift_code, bank_name, address, country_iso2, country_name, is_headquarter, swift_code_base) VALUES (?, ?, ?, ?, ?, ?, ?),(?, ?, ?, ?, ?, ?, ?)")).
				WithArgs(
					"AAAABBBXXX", "Bank A", "Addr", "US", "USA", 1, "AAAABBBX",
					"AAAABBBXYYY", "Bank A Branch", "Branch Addr", "US", "USA", 0, "AAAABBBX",
				).
				WillReturnResult(sqlmock.NewResult(0, 2))

			inserted, err := repository.InsertBatch(ctx, []*models.SwiftCode{sampleCode, branchCode})
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeEquivalentTo(2))
		})

		It("should skip codes that are already stored", func() {
			mock.ExpectQuery(`SELECT swift_code FROM .* WHERE swift_code IN`).
				WillReturnRows(existing("AAAABBBXXX"))
			mock.ExpectExec(q("INSERT INTO " + tableName + " (swift_code, bank_name, address, country_iso2, country_name, is_headquarter, swift_code_base) VALUES (?, ?, ?, ?, ?, ?, ?)")).
				WithArgs("AAAABBBXYYY", "Bank A Branch", "Branch Addr", "US", "USA", 0, "AAAABBBX").
				WillReturnResult(sqlmock.NewResult(0, 1))

			inserted, err := repository.InsertBatch(ctx, []*models.SwiftCode{sampleCode, branchCode, branchCode})
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeEquivalentTo(1))
		})

		It("should not write a batch that is entirely stored", func() {
			mock.ExpectQuery(`SELECT swift_code FROM .* WHERE swift_code IN`).
				WillReturnRows(existing("AAAABBBXXX", "AAAABBBXYYY"))

			inserted, err := repository.InsertBatch(ctx, []*models.SwiftCode{sampleCode, branchCode})
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeZero())
		})

		It("should handle an empty batch", func() {
			inserted, err := repository.InsertBatch(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeZero())
		})

		It("should split large batches", func() {
			largeBatch := make([]*models.SwiftCode, 150)
			for i := range largeBatch {
				largeBatch[i] = &models.SwiftCode{
					SwiftCode:     fmt.Sprintf("BANKUS%02dX%02d", i/100, i%100),
					BankName:      "Bank",
					Address:       "Address",
					CountryISO2:   "US",
					CountryName:   "UNITED STATES",
					SwiftCodeBase: fmt.Sprintf("BANKUS%02d", i/100),
				}
			}

			firstArgs := make([]driver.Value, 7*100)
			for i := range firstArgs {
				firstArgs[i] = sqlmock.AnyArg()
			}
			secondArgs := make([]driver.Value, 7*50)
			for i := range secondArgs {
				secondArgs[i] = sqlmock.AnyArg()
			}

			mock.ExpectQuery(`SELECT swift_code FROM .*`).WillReturnRows(existing())
			mock.ExpectExec(`INSERT INTO .*`).WithArgs(firstArgs...).WillReturnResult(sqlmock.NewResult(0, 100))
			mock.ExpectQuery(`SELECT swift_code FROM .*`).WillReturnRows(existing())
			mock.ExpectExec(`INSERT INTO .*`).WithArgs(secondArgs...).WillReturnResult(sqlmock.NewResult(0, 50))

			inserted, err := repository.InsertBatch(ctx, largeBatch)
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeEquivalentTo(150))
		})

		It("should report the failing batch", func() {
			mock.ExpectQuery(`SELECT swift_code FROM .*`).WillReturnRows(existing())
			mock.ExpectExec(`INSERT INTO .*`).WillReturnError(errors.New("batch insert error"))

			_, err := repository.InsertBatch(ctx, []*models.SwiftCode{sampleCode, branchCode})
			Expect(err).To(MatchError(ContainSubstring("trino batch insert failed for rows 1-2")))
		})
	})
})

var _ = Describe("SQLSwiftCodeRepository on PostgreSQL", func() {
	var (
		mockDB     *sql.DB
		mock       sqlmock.Sqlmock
		repository repo.SwiftCodeRepository
		ctx        context.Context
	)

	q := regexp.QuoteMeta

	BeforeEach(func() {
		var err error
		mockDB, mock, err = sqlmock.New()
		Expect(err).NotTo(HaveOccurred())

		repository = repo.NewSQLSwiftCodeRepository(&database.Database{DB: mockDB, Config: database.Config{
			Type: database.TypePostgres,
		}})
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mockDB.Close()
	})

	It("should use numbered placeholders", func() {
		mock.ExpectQuery(q("FROM swift_codes WHERE swift_code_base = $1 AND swift_code <> $2")).
			WithArgs("AAAABBBX", "AAAABBBXXX").
			WillReturnRows(sqlmock.NewRows(swiftCodeColumns))

		_, err := repository.ListBranches(ctx, "AAAABBBX", "AAAABBBXXX")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should map unique violations to ErrDuplicate", func() {
		mock.ExpectExec(q("INSERT INTO swift_codes")).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := repository.Insert(ctx, &models.SwiftCode{SwiftCode: "AAAABBBXXX", SwiftCodeBase: "AAAABBBX"})
		Expect(err).To(Equal(repo.ErrDuplicate))
	})

	It("should skip existing codes during batch inserts", func() {
		mock.ExpectExec(q("VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (swift_code) DO NOTHING")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		inserted, err := repository.InsertBatch(ctx, []*models.SwiftCode{{SwiftCode: "AAAABBBXXX", SwiftCodeBase: "AAAABBBX"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(BeZero())
	})
})
