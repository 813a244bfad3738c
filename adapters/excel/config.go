package excel

// DefaultSheet is read when no sheet is configured
const DefaultSheet = "Sheet1"

// ExcelConfig holds configuration for the file data source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	Sheet    string `json:"sheet"` // only used for .xlsx files
}

// DefaultExcelConfig returns sensible defaults for file loading
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Sheet: DefaultSheet,
	}
}
