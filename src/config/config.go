package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 应用配置
type Config struct {
	DataDir     string `json:"data_dir"`     // 数据文件目录
	PrimaryFile string `json:"primary_file"` // 主数据集文件名, 如 baseZona2024.xlsx
	LogName     string `json:"log_name"`
	LogMaxSize  string `json:"log_max_size"`

	Email struct {
		Server        string   `json:"server"`         // IMAP服务器地址
		Username      string   `json:"username"`       // 邮箱用户名
		Password      string   `json:"password"`       // 邮箱密码
		TargetSubject string   `json:"target_subject"` // 问卷导出邮件的主题关键词
		CheckInterval Duration `json:"check_interval"` // 检查新邮件的间隔时间
	} `json:"email"`

	SendEmail struct {
		Server   string   `json:"server"` // SMTP服务器地址
		Username string   `json:"username"`
		Password string   `json:"password"`
		Subject  string   `json:"subject"`
		To       []string `json:"to"` // 报告收件人
	} `json:"send_email"`
}

// SurveyConfig 分析配置: 要统计的字段等
type SurveyConfig struct {
	DemographicFields []string `json:"demographic_fields"` // 人口学字段(清洗后的列名)
	ScoreField        string   `json:"score_field"`        // NPS评分列
	SheetName         string   `json:"sheet_name"`         // xlsx工作表, 空取第一个
	ReportFile        string   `json:"report_file"`        // 导出的xlsx报告文件名
}

var (
	once                 sync.Once
	instance             *Config
	surveyConfigInstance *SurveyConfig
)

// LoadConfig 加载两个配置文件, 进程内只加载一次
func LoadConfig(jsonFolder, jsonFile, surveyJsonFile string) (*Config, *SurveyConfig, error) {
	var err error
	once.Do(func() {
		instance, surveyConfigInstance, err = loadConfigs(jsonFolder, jsonFile, surveyJsonFile)
	})
	if err == nil && (instance == nil || surveyConfigInstance == nil) {
		return nil, nil, fmt.Errorf("configuration was not loaded")
	}
	return instance, surveyConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, surveyJsonFile string) (*Config, *SurveyConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	surveyConfigFile := filepath.Join(jsonFolder, surveyJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read app config: %w", err)
	}

	surveyConfigData, err := readFile(surveyConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read survey config: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	scfgChan := make(chan *SurveyConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseSurveyConfig(surveyConfigData, scfgChan, errChan)

	return waitForResults(cfgChan, scfgChan, errChan)
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("parse Config: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseSurveyConfig(data []byte, resultChan chan<- *SurveyConfig, errChan chan<- error) {
	var scfg SurveyConfig
	if err := json.Unmarshal(data, &scfg); err != nil {
		errChan <- fmt.Errorf("parse SurveyConfig: %w", err)
		return
	}
	resultChan <- &scfg
}

func waitForResults(
	cfgChan <-chan *Config,
	scfgChan <-chan *SurveyConfig,
	errChan <-chan error,
) (*Config, *SurveyConfig, error) {
	var (
		cfg  *Config
		scfg *SurveyConfig
		errs []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case s := <-scfgChan:
			scfg = s
		case err := <-errChan:
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}

	if cfg == nil || scfg == nil {
		return nil, nil, fmt.Errorf("partial configuration load")
	}

	return cfg, scfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "configuration errors:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
