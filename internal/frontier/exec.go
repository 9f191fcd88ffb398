package frontier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ExecSolver 子进程求解器适配器：
// 将请求以 JSON 写入外部命令的标准输入，从标准输出读取结果 JSON。
// 命令与参数来自配置
type ExecSolver struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// NewExecSolver 创建子进程求解器
func NewExecSolver(command string, args []string, timeout time.Duration) *ExecSolver {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &ExecSolver{Command: command, Args: args, Timeout: timeout}
}

// Solve 调用外部求解器命令
func (s *ExecSolver) Solve(req Request) (*Result, error) {
	if s.Command == "" {
		return nil, errors.New("frontier solver command not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode solver request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("frontier solver failed: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("frontier solver failed: %w", err)
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, fmt.Errorf("decode solver result: %w", err)
	}
	if err := checkResult(&result, len(req.Dates)); err != nil {
		return nil, err
	}
	return &result, nil
}

// checkResult 校验求解器输出的行数与 DMU 数一致
func checkResult(r *Result, n int) error {
	if len(r.ForecastDate) != n || len(r.EffAtRelease) != n ||
		len(r.EffAtFrontier) != n || len(r.EffForecast) != n || len(r.ROC) != n {
		return fmt.Errorf("solver result size mismatch: expected %d rows", n)
	}
	return nil
}
