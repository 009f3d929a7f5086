package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// fieldsPerRecord 每筆帳戶固定四行: 帳號、名、姓、餘額
const fieldsPerRecord = 4

// Repository 以純文字檔保存帳戶快照
//
// 格式: 每筆帳戶連續四行，無檔頭也無分隔符號。
// 名字為空、前後有空白、含換行或以 " 開頭時以 Go 字串語法加上引號。
type Repository struct {
	path string
}

func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// Path 回傳資料檔路徑
func (r *Repository) Path() string {
	return r.path
}

// LoadAll 讀取資料檔；檔案不存在時回傳空集合
func (r *Repository) LoadAll(ctx context.Context) ([]domain.Account, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Account{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// SaveAll 截斷資料檔並重新寫入所有帳戶
func (r *Repository) SaveAll(ctx context.Context, accounts []domain.Account) error {
	f, err := os.Create(r.path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, accounts); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Decode 依序解析帳戶，直到 EOF
// 結尾不足四行的殘缺資料直接忽略；單行長度不設上限
func Decode(r io.Reader) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	br := bufio.NewReader(r)

	var fields [fieldsPerRecord]string
	n, lineNo := 0, 0
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, readErr
		}
		if raw != "" {
			lineNo++
		}
		if line := strings.TrimSpace(raw); line != "" {
			fields[n] = line
			n++
			if n == fieldsPerRecord {
				n = 0
				acc, err := decodeRecord(fields)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedRecord, lineNo, err)
				}
				accounts = append(accounts, *acc)
			}
		}
		if readErr != nil {
			return accounts, nil
		}
	}
}

// Encode 將帳戶依傳入順序寫出
func Encode(w io.Writer, accounts []domain.Account) error {
	for _, acc := range accounts {
		_, err := fmt.Fprintf(w, "%d\n%s\n%s\n%s\n",
			acc.Number(),
			encodeName(acc.FirstName()),
			encodeName(acc.LastName()),
			acc.Balance().String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeRecord(fields [fieldsPerRecord]string) (*domain.Account, error) {
	number, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("account number: %w", err)
	}
	firstName := decodeName(fields[1])
	lastName := decodeName(fields[2])
	balance, err := decimal.NewFromString(fields[3])
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	return domain.NewAccount(number, firstName, lastName, balance), nil
}

func encodeName(name string) string {
	if name == "" ||
		strings.TrimSpace(name) != name ||
		strings.ContainsAny(name, "\r\n") ||
		strings.HasPrefix(name, `"`) {
		return strconv.Quote(name)
	}
	return name
}

// decodeName 還原加引號的名字
// 舊版資料檔直接寫入原始名字，無法解析的引號欄位保留原樣
func decodeName(field string) string {
	if strings.HasPrefix(field, `"`) {
		if name, err := strconv.Unquote(field); err == nil {
			return name
		}
	}
	return field
}

var _ usecase.Repository = (*Repository)(nil)
