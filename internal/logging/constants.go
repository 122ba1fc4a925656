package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldSheet       = "sheet"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldMonth       = "month"
	FieldYear        = "year"
	FieldShape       = "query_shape"
	FieldURL         = "url"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldOutputFile  = "output_file"
)
