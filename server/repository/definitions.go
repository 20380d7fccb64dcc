package repository

var (
	logonEventRepository *LogonEventRepository
	propertyRepository   *PropertyRepository
)
