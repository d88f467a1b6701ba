package service

var (
	ICsvReadService   = &CsvReadServiceImpl{}
	ITransformService = &TransformServiceImpl{}
	IAggregateService = &AggregateServiceImpl{}
	IRunRecordService = &RunRecordServiceImpl{}
)
