// dataset.go
package dataset

import (
	"fmt"
	"sync"

	"github.com/go-gota/gota/dataframe"
)

// Dataset 封装DataFrame并提供线程安全访问
type Dataset struct {
	df dataframe.DataFrame
	mu sync.RWMutex
}

func New(df dataframe.DataFrame) *Dataset {
	return &Dataset{df: df}
}

// Frame 获取当前DataFrame(线程安全)
func (d *Dataset) Frame() dataframe.DataFrame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.df
}

func (d *Dataset) SetFrame(df dataframe.DataFrame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.df = df
}

// Shape 返回 (行数, 列数)
func (d *Dataset) Shape() (rows, cols int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.df.Nrow(), d.df.Ncol()
}

func (d *Dataset) Columns() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.df.Names()
}

// Types 返回每列的推断类型标签, 与Columns()顺序一致
func (d *Dataset) Types() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	types := d.df.Types()
	labels := make([]string, len(types))
	for i, t := range types {
		labels[i] = string(t)
	}
	return labels
}

// Head 返回前n行记录, 不含标题行
func (d *Dataset) Head(n int) [][]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	records := d.df.Records()
	if len(records) <= 1 {
		return nil
	}
	rows := records[1:]
	if n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

func (d *Dataset) HasColumn(name string) bool {
	for _, n := range d.Columns() {
		if n == name {
			return true
		}
	}
	return false
}

// Col 按列名取原始字符串值
func (d *Dataset) Col(name string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	col := d.df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("column %q: %w", name, col.Err)
	}
	return col.Records(), nil
}

// CleanColumnNames 就地规范化列名并返回发生变化的列 旧名->新名
func (d *Dataset) CleanColumnNames() (map[string]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	old := d.df.Names()
	cleaned := CleanNames(old)

	if err := d.df.SetNames(cleaned...); err != nil {
		return nil, fmt.Errorf("rename columns: %w", err)
	}

	changed := make(map[string]string)
	for i, name := range old {
		if name != cleaned[i] {
			changed[name] = cleaned[i]
		}
	}
	return changed, nil
}
