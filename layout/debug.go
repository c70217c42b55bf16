package layout

import (
	"encoding/json"
	"os"
)

type debugDocument struct {
	*Result
	Source string `json:"source"`
}

// WriteDebugJSON 将生成结果（样式、指令与完整程序）输出为 JSON，便于调试。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(debugDocument{Result: res, Source: res.Source()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
