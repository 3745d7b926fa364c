// explorer.go
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"SurveyPulse/src/dataset"
)

// PreviewRows 每个文件预览的记录数
const PreviewRows = 5

// Report 单个数据文件的勘察结果
// Err非nil表示读取失败, Skipped表示扩展名不支持, 两者都为零值时其余字段有效
type Report struct {
	File    string
	Rows    int
	Cols    int
	Columns []string
	Types   []string
	Preview [][]string
	Skipped bool
	Err     error
}

// ExploreDir 按字典序遍历目录下的非目录项, 每个文件产出一个Report
// 单个文件读取失败只记录在对应Report里, 不会中断遍历
func ExploreDir(dir, sheetName string) ([]Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	reports := make([]Report, 0, len(names))
	for _, name := range names {
		reports = append(reports, exploreFile(dir, name, sheetName))
	}
	return reports, nil
}

func exploreFile(dir, name, sheetName string) Report {
	r := Report{File: name}

	df, err := ReadFile(filepath.Join(dir, name), sheetName)
	if errors.Is(err, ErrUnsupported) {
		r.Skipped = true
		return r
	}
	if err != nil {
		r.Err = err
		return r
	}

	ds := dataset.New(df)
	r.Rows, r.Cols = ds.Shape()
	r.Columns = ds.Columns()
	r.Types = ds.Types()
	r.Preview = ds.Head(PreviewRows)
	return r
}
