package keyset

import (
	"database/sql/driver"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type tUser struct {
	ID   int64
	Band int64
	Name string
}

var userGetters = Getters[tUser]{
	"id":   func(u tUser) any { return u.ID },
	"band": func(u tUser) any { return u.Band },
}

func newUserPager(pageSize int) *Pager[tUser] {
	return NewPager[tUser]().
		WithPageSize(pageSize).
		WithColumnKind("id", KindInt).
		WithColumnKind("band", KindInt)
}

func userToken(c Cursor) string {
	return EncodeCursor(c)
}

func positionToken(position string) string {
	return EncodeCursor(Cursor{Position: &position})
}

func Test_Pager_Paginate_GormSource(t *testing.T) {
	sqlMockFnList := []func() (string, *gorm.DB, sqlmock.Sqlmock, error){
		newGORMMySQLMock,
		newGORMPostgresMock,
	}

	for _, sqlMockFn := range sqlMockFnList {
		tests := []struct {
			name          string
			pager         *Pager[tUser]
			token         string
			expectedQuery string
			expectedArgs  []driver.Value
			expectedRows  *sqlmock.Rows
			expectedIDs   []int64
			hasNext       bool
			hasPrevious   bool
		}{
			{
				name:          "first page without cursor",
				pager:         newUserPager(2).WithOrdering("id"),
				token:         "",
				expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE name = ['\"]lol['\"] ORDER BY id ASC LIMIT 3$",
				expectedArgs:  nil,
				expectedRows:  sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3),
				expectedIDs:   []int64{1, 2},
				hasNext:       true,
				hasPrevious:   false,
			},
			{
				name:          "forward cursor filters strictly after the position",
				pager:         newUserPager(2).WithOrdering("id"),
				token:         positionToken(`["5"]`),
				expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE name = ['\"]lol['\"] AND id > (?:\\$\\d|\\?) ORDER BY id ASC LIMIT 3$",
				expectedArgs:  []driver.Value{int64(5)},
				expectedRows:  sqlmock.NewRows([]string{"id"}).AddRow(6).AddRow(7),
				expectedIDs:   []int64{6, 7},
				hasNext:       false,
				hasPrevious:   true,
			},
			{
				name:          "reverse cursor inverts the scan and flips the page back",
				pager:         newUserPager(2).WithOrdering("id"),
				token:         userToken(Cursor{Reverse: true, Position: lo.ToPtr(`["5"]`)}),
				expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE name = ['\"]lol['\"] AND id < (?:\\$\\d|\\?) ORDER BY id DESC LIMIT 3$",
				expectedArgs:  []driver.Value{int64(5)},
				expectedRows:  sqlmock.NewRows([]string{"id"}).AddRow(4).AddRow(3).AddRow(2),
				expectedIDs:   []int64{3, 4},
				hasNext:       true,
				hasPrevious:   true,
			},
			{
				name:          "mixed-direction boundary expands to the disjunctive form",
				pager:         newUserPager(2).WithOrdering("-band", "id"),
				token:         positionToken(`["5","10"]`),
				expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE name = ['\"]lol['\"] AND \\(band < (?:\\$\\d|\\?) OR \\(band = (?:\\$\\d|\\?) AND id > (?:\\$\\d|\\?)\\)\\) ORDER BY band DESC, id ASC LIMIT 3$",
				expectedArgs:  []driver.Value{int64(5), int64(5), int64(10)},
				expectedRows:  sqlmock.NewRows([]string{"id", "band"}).AddRow(11, 4).AddRow(12, 4),
				expectedIDs:   []int64{11, 12},
				hasNext:       false,
				hasPrevious:   true,
			},
			{
				name:          "tuple comparison for a uniform ordering",
				pager:         newUserPager(2).WithOrdering("band", "id").WithTupleComparison(),
				token:         positionToken(`["5","10"]`),
				expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE name = ['\"]lol['\"] AND \\(band, id\\) > \\((?:\\$\\d|\\?), (?:\\$\\d|\\?)\\) ORDER BY band ASC, id ASC LIMIT 3$",
				expectedArgs:  []driver.Value{int64(5), int64(10)},
				expectedRows:  sqlmock.NewRows([]string{"id", "band"}).AddRow(11, 5).AddRow(12, 6),
				expectedIDs:   []int64{11, 12},
				hasNext:       false,
				hasPrevious:   true,
			},
			{
				name:          "offset cursor shifts the window",
				pager:         newUserPager(2).WithOrdering("id"),
				token:         userToken(Cursor{Offset: 5}),
				expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE name = ['\"]lol['\"] ORDER BY id ASC LIMIT 3 OFFSET 5$",
				expectedArgs:  nil,
				expectedRows:  sqlmock.NewRows([]string{"id"}).AddRow(6),
				expectedIDs:   []int64{6},
				hasNext:       false,
				hasPrevious:   true,
			},
		}

		for _, tt := range tests {
			dialect, db, dbMock, err := sqlMockFn()
			t.Run(fmt.Sprintf("%s %s", dialect, tt.name), func(t *testing.T) {
				if err != nil {
					t.Fatalf("gorm open: %v", err)
				}

				expectation := dbMock.ExpectQuery(tt.expectedQuery)
				if len(tt.expectedArgs) > 0 {
					expectation = expectation.WithArgs(tt.expectedArgs...)
				}
				expectation.WillReturnRows(tt.expectedRows)

				src := NewGormSource(
					db.Select("*").Table("users").Where("name = 'lol'"),
					"id",
					userGetters,
				)

				page, err := tt.pager.Paginate(src, tt.token)
				if err != nil {
					t.Fatalf("paginate: %v", err)
				}

				ids := make([]int64, 0, len(page.Items))
				for _, item := range page.Items {
					ids = append(ids, item.ID)
				}
				assert.Equal(t, tt.expectedIDs, ids)
				assert.Equal(t, tt.hasNext, page.HasNext)
				assert.Equal(t, tt.hasPrevious, page.HasPrevious)

				assert.NoError(t, dbMock.ExpectationsWereMet())
			})
		}
	}
}

func Test_GormSource_FieldValue_MissingGetter(t *testing.T) {
	_, db, dbMock, err := newGORMMySQLMock()
	require.NoError(t, err)

	dbMock.ExpectQuery("^SELECT .*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "a").AddRow(2, "b").AddRow(3, "c"))

	// "name" has no getter, so deriving the next token must fail once a
	// following page exists.
	pager := NewPager[tUser]().
		WithPageSize(2).
		WithOrdering("name").
		WithColumnKind("id", KindInt)

	src := NewGormSource(db.Select("*").Table("users"), "id", userGetters)

	_, err = pager.Paginate(src, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot find getter for column 'name'")
}

func Test_GormSource_SliceWindow(t *testing.T) {
	_, db, dbMock, err := newGORMPostgresMock()
	require.NoError(t, err)

	dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]users[`'\"] LIMIT 4 OFFSET 2$").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(4))

	src := NewGormSource[tUser](db.Select("*").Table("users"), "id", userGetters)

	rows, err := src.Slice(2, 6)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}
