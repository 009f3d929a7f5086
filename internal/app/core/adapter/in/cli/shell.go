package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const menu = `
1. Open Account
2. Balance Enquiry
3. Deposit
4. Withdraw
5. Close Account
6. Show All Accounts
7. Exit
Enter choice: `

const choiceExit = 7

// Shell 互動式選單
// 每行輸入一個值，名字可包含空白；輸入結束 (EOF) 視同離開
type Shell struct {
	ledger Ledger
	in     *bufio.Scanner
	out    io.Writer
}

func NewShell(ledger Ledger, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		ledger: ledger,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run 執行選單迴圈直到選擇離開；任何操作錯誤只顯示訊息並繼續
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "*** BANKING SYSTEM ***")
	for {
		fmt.Fprint(s.out, menu)
		line, err := s.readLine()
		if err != nil {
			return s.exit(err)
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(s.out, "Invalid choice!")
			continue
		}
		if choice == choiceExit {
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		}
		if err := s.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				return s.exit(err)
			}
			PrintError(s.out, err)
		}
	}
}

func (s *Shell) exit(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out, "\nExiting...")
		return nil
	}
	return err
}

func (s *Shell) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case 1:
		firstName, err := s.prompt("Enter First Name: ")
		if err != nil {
			return err
		}
		lastName, err := s.prompt("Enter Last Name: ")
		if err != nil {
			return err
		}
		balance, err := s.promptAmount("Enter Initial Balance: ")
		if err != nil {
			return err
		}
		acc, err := s.ledger.OpenAccount(ctx, firstName, lastName, balance)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, "\nAccount Created Successfully!")
		PrintAccount(s.out, acc)
	case 2:
		number, err := s.promptAccountNumber()
		if err != nil {
			return err
		}
		acc, err := s.ledger.BalanceEnquiry(ctx, number)
		if err != nil {
			return err
		}
		PrintAccount(s.out, acc)
	case 3:
		number, err := s.promptAccountNumber()
		if err != nil {
			return err
		}
		amount, err := s.promptAmount("Enter Amount: ")
		if err != nil {
			return err
		}
		acc, err := s.ledger.Deposit(ctx, number, amount)
		if err != nil {
			return err
		}
		PrintAccount(s.out, acc)
	case 4:
		number, err := s.promptAccountNumber()
		if err != nil {
			return err
		}
		amount, err := s.promptAmount("Enter Amount: ")
		if err != nil {
			return err
		}
		acc, err := s.ledger.Withdraw(ctx, number, amount)
		if err != nil {
			return err
		}
		PrintAccount(s.out, acc)
	case 5:
		number, err := s.promptAccountNumber()
		if err != nil {
			return err
		}
		acc, err := s.ledger.CloseAccount(ctx, number)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Account Deleted:")
		PrintAccount(s.out, acc)
	case 6:
		PrintAccounts(s.out, s.ledger.ShowAllAccounts(ctx))
	default:
		fmt.Fprintln(s.out, "Invalid choice!")
	}
	return nil
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	return s.readLine()
}

func (s *Shell) promptAccountNumber() (int64, error) {
	line, err := s.prompt("Enter Account Number: ")
	if err != nil {
		return 0, err
	}
	return ParseAccountNumber(line)
}

func (s *Shell) promptAmount(label string) (decimal.Decimal, error) {
	line, err := s.prompt(label)
	if err != nil {
		return decimal.Zero, err
	}
	return ParseAmount(line)
}

func (s *Shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}
