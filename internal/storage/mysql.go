package storage

import (
	"career-agent-go/internal/config"
	"career-agent-go/internal/parser"
	"career-agent-go/internal/storage/models"
	"career-agent-go/internal/types"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer("career-agent-go/storage/mysql")

// ErrUserNotFound 表示用户从未上传过简历
var ErrUserNotFound = errors.New("用户简历不存在")

// ErrPlanNotFound 表示用户尚未生成职业规划
var ErrPlanNotFound = errors.New("职业规划不存在")

// GormTracingPlugin 是一个GORM插件，用于向OpenTelemetry中添加数据库操作的追踪点
type GormTracingPlugin struct {
	tracer         trace.Tracer
	dbName         string
	disableErrSkip bool
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}

	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}

	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}

	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}

	if err := cb.Row().Before("gorm:row").Register("otel:before_row", p.before("ROW")); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("otel:after_row", p.after()); err != nil {
		return err
	}

	if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("RAW")); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after()); err != nil {
		return err
	}

	return nil
}

// before 返回在GORM操作之前执行的回调函数
func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if p.disableErrSkip && db.Statement.SkipHooks {
			return
		}

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		spanName := fmt.Sprintf("%s %s", operation, tableName)
		opts := []trace.SpanStartOption{
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		}

		if sqlStatement := db.Statement.SQL.String(); sqlStatement != "" {
			opts = append(opts, trace.WithAttributes(
				attribute.String("db.statement", sqlStatement),
			))
		}

		newCtx, span := p.tracer.Start(ctx, spanName, opts...)

		// 将span保存在DB上下文中，以便在after回调中使用
		db.Statement.Context = context.WithValue(newCtx, "otel-span", span)
	}
}

// after 返回在GORM操作之后执行的回调函数
func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value("otel-span").(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		// ErrRecordNotFound 是业务逻辑正常情况的一部分，不应作为错误处理
		if db.Error != nil {
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				span.SetAttributes(attribute.String("error.type", "record_not_found"))
				span.SetStatus(codes.Ok, "record not found")
			} else {
				span.SetAttributes(attribute.String("error.type", "database_error"))
				span.RecordError(db.Error)
				span.SetStatus(codes.Error, db.Error.Error())
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}

// NewGormTracingPlugin 创建一个新的GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer:         mysqlTracer,
		dbName:         dbName,
		disableErrSkip: true,
	}
}

// MySQL 提供关系数据库功能
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	// 构建DSN，添加超时设置
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	// 配置GORM日志级别
	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = logger.Silent
	case 2:
		logLevel = logger.Error
	case 3:
		logLevel = logger.Warn
	case 4:
		logLevel = logger.Info
	default:
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,                             // 禁用自动外键创建
		Logger:                                   logger.Default.LogMode(logLevel), // 设置日志级别
		PrepareStmt:                              true,                             // 开启预编译语句缓存
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	m := &MySQL{
		db:  db,
		cfg: cfg,
	}

	// 注册OpenTelemetry追踪插件
	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	if err := m.autoMigrateSchema(); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	log.Println("成功连接到MySQL并自动迁移数据库结构")
	return m, nil
}

// autoMigrateSchema 使用GORM自动迁移数据库表结构
func (m *MySQL) autoMigrateSchema() error {
	currentLogger := m.db.Logger

	// 创建一个静默的logger以关闭迁移期间的SQL日志打印
	silentLogger := logger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	silentDB := m.db.Session(&gorm.Session{Logger: silentLogger})

	err := silentDB.AutoMigrate(
		&models.UserProfile{},
		&models.WorkExperience{},
		&models.Internship{},
		&models.EducationEntry{},
		&models.Project{},
		&models.Certification{},
		&models.SkillEntry{},
		&models.AdditionalSection{},
		&models.CareerPlanRecord{},
		&models.JobSearchLog{},
	)

	m.db = m.db.Session(&gorm.Session{Logger: currentLogger})

	if err != nil {
		return fmt.Errorf("GORM自动迁移失败: %w", err)
	}
	return nil
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// strField 从条目map中按候选键取第一个非空字符串值
func strField(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := entry[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// entryList 将章节内容强制转换为条目map列表。
// 字符串条目被包装成只含description的条目，其他类型被丢弃。
func entryList(content any) []map[string]any {
	items, ok := content.([]any)
	if !ok {
		return nil
	}
	entries := make([]map[string]any, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			entries = append(entries, v)
		case string:
			entries = append(entries, map[string]any{"description": v})
		}
	}
	return entries
}

// canonicalizeRecord 将模型输出的章节键归一化为规范键，
// 未映射的键原样保留，后续落入additional_sections。
func canonicalizeRecord(record types.ResumeRecord) types.ResumeRecord {
	out := make(types.ResumeRecord, len(record))
	for key, value := range record {
		canonical := types.CanonicalSectionKey(key)
		if _, taken := out[canonical]; taken {
			// 同义章节冲突时保留先到者，后到的按原键存储
			out[key] = value
			continue
		}
		out[canonical] = value
	}
	return out
}

// ReplaceResumeData 以用户为单位整表重建简历数据。
// 删除、重建在同一事务中完成，任一步失败则整体回滚。
func (m *MySQL) ReplaceResumeData(ctx context.Context, userID string, fileName string, record types.ResumeRecord) error {
	ctx, span := mysqlTracer.Start(ctx, "MySQL.ReplaceResumeData",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		semconv.DBSystemMySQL,
		attribute.String("db.name", m.cfg.Database),
		attribute.String("user.id", userID),
		attribute.Int("record.sections", len(record)),
	)

	record = canonicalizeRecord(record)

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 清空该用户的全部章节数据
		sectionModels := []any{
			&models.WorkExperience{},
			&models.Internship{},
			&models.EducationEntry{},
			&models.Project{},
			&models.Certification{},
			&models.SkillEntry{},
			&models.AdditionalSection{},
		}
		for _, model := range sectionModels {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return fmt.Errorf("清空旧章节数据失败: %w", err)
			}
		}

		// 用户主行
		profile, err := buildUserProfile(userID, fileName, record)
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).Create(profile).Error; err != nil {
			return fmt.Errorf("写入用户主行失败: %w", err)
		}

		// 标准章节
		if rows := buildExperienceRows(userID, record[types.SectionWorkExperience]); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("写入工作经历失败: %w", err)
			}
		}
		if rows := buildInternshipRows(userID, record[types.SectionInternships]); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("写入实习经历失败: %w", err)
			}
		}
		if rows := buildEducationRows(userID, record[types.SectionEducation]); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("写入教育经历失败: %w", err)
			}
		}
		if rows := buildProjectRows(userID, record[types.SectionProjects]); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("写入项目经历失败: %w", err)
			}
		}
		if rows := buildCertificationRows(userID, record[types.SectionCertifications]); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("写入证书失败: %w", err)
			}
		}
		if rows := buildSkillRows(userID, record[types.SectionSkills]); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("写入技能失败: %w", err)
			}
		}

		// 非标准章节原样落入additional_sections
		if rows := buildAdditionalRows(userID, record); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("写入附加章节失败: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func buildUserProfile(userID string, fileName string, record types.ResumeRecord) (*models.UserProfile, error) {
	profile := &models.UserProfile{
		UserID:         userID,
		ResumeFileName: fileName,
	}

	if info, ok := record[types.SectionPersonalInfo].(map[string]any); ok {
		profile.Name = strField(info, "name", "full_name")
		profile.Email = strField(info, "email")
		profile.Phone = strField(info, "phone")
		profile.Location = strField(info, "location")

		// 未映射到独立列的键保留在JSON列中
		extra := make(map[string]any)
		for key, value := range info {
			switch key {
			case "name", "full_name", "email", "phone", "location":
			default:
				extra[key] = value
			}
		}
		if len(extra) > 0 {
			extraJSON, err := models.MapToJSON(extra)
			if err != nil {
				return nil, fmt.Errorf("序列化个人信息附加字段失败: %w", err)
			}
			profile.ExtraInfoJSON = extraJSON
		}
	}

	if summary, ok := record[types.SectionSummary].(string); ok {
		profile.Summary = summary
	}

	return profile, nil
}

func buildExperienceRows(userID string, content any) []models.WorkExperience {
	entries := entryList(content)
	rows := make([]models.WorkExperience, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.WorkExperience{
			UserID:      userID,
			Role:        strField(entry, "role", "title", "position"),
			Company:     strField(entry, "company", "organization"),
			Duration:    strField(entry, "duration", "dates"),
			Description: parser.FlattenDescription(entry["description"]),
		})
	}
	return rows
}

func buildInternshipRows(userID string, content any) []models.Internship {
	entries := entryList(content)
	rows := make([]models.Internship, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.Internship{
			UserID:      userID,
			Role:        strField(entry, "role", "title", "position"),
			Company:     strField(entry, "company", "organization"),
			Duration:    strField(entry, "duration", "dates"),
			Description: parser.FlattenDescription(entry["description"]),
		})
	}
	return rows
}

func buildEducationRows(userID string, content any) []models.EducationEntry {
	entries := entryList(content)
	rows := make([]models.EducationEntry, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.EducationEntry{
			UserID:      userID,
			Institution: strField(entry, "institution", "school", "university"),
			Degree:      strField(entry, "degree"),
			Duration:    strField(entry, "duration", "dates", "years"),
			Description: parser.FlattenDescription(entry["description"]),
		})
	}
	return rows
}

func buildProjectRows(userID string, content any) []models.Project {
	entries := entryList(content)
	rows := make([]models.Project, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.Project{
			UserID:      userID,
			Title:       strField(entry, "title", "name"),
			TechStack:   strField(entry, "tech_stack", "technologies"),
			Description: parser.FlattenDescription(entry["description"]),
		})
	}
	return rows
}

func buildCertificationRows(userID string, content any) []models.Certification {
	entries := entryList(content)
	rows := make([]models.Certification, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.Certification{
			UserID:      userID,
			Name:        strField(entry, "name", "title"),
			Issuer:      strField(entry, "issuer", "organization"),
			Year:        strField(entry, "year", "date"),
			Description: parser.FlattenDescription(entry["description"]),
		})
	}
	return rows
}

func buildSkillRows(userID string, content any) []models.SkillEntry {
	skills, ok := content.(map[string]any)
	if !ok {
		return nil
	}

	// 遍历map的顺序不确定，按类别排序保证插入顺序稳定
	categories := make([]string, 0, len(skills))
	for category := range skills {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var rows []models.SkillEntry
	for _, category := range categories {
		items, ok := skills[category].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			name, ok := item.(string)
			if !ok || name == "" {
				continue
			}
			rows = append(rows, models.SkillEntry{
				UserID:    userID,
				Category:  category,
				SkillName: name,
			})
		}
	}
	return rows
}

func buildAdditionalRows(userID string, record types.ResumeRecord) []models.AdditionalSection {
	canonical := make(map[string]bool, len(types.CanonicalSectionOrder))
	for _, key := range types.CanonicalSectionOrder {
		canonical[key] = true
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		if !canonical[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	rows := make([]models.AdditionalSection, 0, len(keys))
	for _, key := range keys {
		flat := parser.StringifyListContent(record[key])
		if flat == "" {
			continue
		}
		rows = append(rows, models.AdditionalSection{
			UserID:      userID,
			SectionName: key,
			Description: flat,
		})
	}
	return rows
}

// pickDescription 按需选择优化后的描述；优化列为空时无条件回退到原始描述
func pickDescription(original string, optimized *string, wantOptimized bool) string {
	if wantOptimized && optimized != nil && *optimized != "" {
		return *optimized
	}
	return original
}

// FetchResume 重建用户的简历数据。
// wantOptimized为true时优先读取已优化的描述，缺失时回退到原始描述。
func (m *MySQL) FetchResume(ctx context.Context, userID string, wantOptimized bool) (types.ResumeRecord, error) {
	ctx, span := mysqlTracer.Start(ctx, "MySQL.FetchResume",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		semconv.DBSystemMySQL,
		attribute.String("db.name", m.cfg.Database),
		attribute.String("user.id", userID),
		attribute.Bool("resume.optimized", wantOptimized),
	)

	var profile models.UserProfile
	if err := m.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Ok, "user not found")
			return nil, fmt.Errorf("user_id=%s: %w", userID, ErrUserNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("查询用户主行失败: %w", err)
	}

	record := types.ResumeRecord{}

	// personal_info
	info := map[string]any{}
	if len(profile.ExtraInfoJSON) > 0 {
		if err := json.Unmarshal(profile.ExtraInfoJSON, &info); err != nil {
			// JSON列损坏时丢弃附加字段，不影响主流程
			info = map[string]any{}
		}
	}
	if profile.Name != "" {
		info["name"] = profile.Name
	}
	if profile.Email != "" {
		info["email"] = profile.Email
	}
	if profile.Phone != "" {
		info["phone"] = profile.Phone
	}
	if profile.Location != "" {
		info["location"] = profile.Location
	}
	if len(info) > 0 {
		record[types.SectionPersonalInfo] = info
	}

	if summary := pickDescription(profile.Summary, profile.OptimizedSummary, wantOptimized); summary != "" {
		record[types.SectionSummary] = summary
	}

	db := m.db.WithContext(ctx)

	var experiences []models.WorkExperience
	if err := db.Where("user_id = ?", userID).Order("id").Find(&experiences).Error; err != nil {
		return nil, fmt.Errorf("查询工作经历失败: %w", err)
	}
	if len(experiences) > 0 {
		entries := make([]any, 0, len(experiences))
		for _, row := range experiences {
			entries = append(entries, map[string]any{
				"role":        row.Role,
				"company":     row.Company,
				"duration":    row.Duration,
				"description": descriptionLines(row.Description, row.OptimizedDescription, wantOptimized),
			})
		}
		record[types.SectionWorkExperience] = entries
	}

	var internships []models.Internship
	if err := db.Where("user_id = ?", userID).Order("id").Find(&internships).Error; err != nil {
		return nil, fmt.Errorf("查询实习经历失败: %w", err)
	}
	if len(internships) > 0 {
		entries := make([]any, 0, len(internships))
		for _, row := range internships {
			entries = append(entries, map[string]any{
				"role":        row.Role,
				"company":     row.Company,
				"duration":    row.Duration,
				"description": descriptionLines(row.Description, row.OptimizedDescription, wantOptimized),
			})
		}
		record[types.SectionInternships] = entries
	}

	var projects []models.Project
	if err := db.Where("user_id = ?", userID).Order("id").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("查询项目经历失败: %w", err)
	}
	if len(projects) > 0 {
		entries := make([]any, 0, len(projects))
		for _, row := range projects {
			entry := map[string]any{
				"title":       row.Title,
				"description": descriptionLines(row.Description, row.OptimizedDescription, wantOptimized),
			}
			if row.TechStack != "" {
				entry["tech_stack"] = row.TechStack
			}
			entries = append(entries, entry)
		}
		record[types.SectionProjects] = entries
	}

	var educations []models.EducationEntry
	if err := db.Where("user_id = ?", userID).Order("id").Find(&educations).Error; err != nil {
		return nil, fmt.Errorf("查询教育经历失败: %w", err)
	}
	if len(educations) > 0 {
		entries := make([]any, 0, len(educations))
		for _, row := range educations {
			entries = append(entries, map[string]any{
				"institution": row.Institution,
				"degree":      row.Degree,
				"duration":    row.Duration,
				"description": descriptionLines(row.Description, row.OptimizedDescription, wantOptimized),
			})
		}
		record[types.SectionEducation] = entries
	}

	var certifications []models.Certification
	if err := db.Where("user_id = ?", userID).Order("id").Find(&certifications).Error; err != nil {
		return nil, fmt.Errorf("查询证书失败: %w", err)
	}
	if len(certifications) > 0 {
		entries := make([]any, 0, len(certifications))
		for _, row := range certifications {
			entry := map[string]any{
				"name":        row.Name,
				"description": descriptionLines(row.Description, row.OptimizedDescription, wantOptimized),
			}
			if row.Issuer != "" {
				entry["issuer"] = row.Issuer
			}
			if row.Year != "" {
				entry["year"] = row.Year
			}
			entries = append(entries, entry)
		}
		record[types.SectionCertifications] = entries
	}

	var skills []models.SkillEntry
	if err := db.Where("user_id = ?", userID).Order("id").Find(&skills).Error; err != nil {
		return nil, fmt.Errorf("查询技能失败: %w", err)
	}
	if len(skills) > 0 {
		byCategory := map[string]any{}
		for _, row := range skills {
			existing, _ := byCategory[row.Category].([]any)
			byCategory[row.Category] = append(existing, row.SkillName)
		}
		record[types.SectionSkills] = byCategory
	}

	var additional []models.AdditionalSection
	if err := db.Where("user_id = ?", userID).Order("id").Find(&additional).Error; err != nil {
		return nil, fmt.Errorf("查询附加章节失败: %w", err)
	}
	for _, row := range additional {
		record[row.SectionName] = descriptionLines(row.Description, row.OptimizedDescription, wantOptimized)
	}

	span.SetAttributes(attribute.Int("record.sections", len(record)))
	span.SetStatus(codes.Ok, "")
	return record, nil
}

// descriptionLines 读取描述文本并还原成条目列表
func descriptionLines(original string, optimized *string, wantOptimized bool) []any {
	lines := parser.SplitDescription(pickDescription(original, optimized, wantOptimized))
	out := make([]any, 0, len(lines))
	for _, line := range lines {
		out = append(out, line)
	}
	return out
}

// UpdateOptimizedResume 将优化后的章节内容写回optimized_*列。
// 按身份列匹配已有行，匹配不到的条目静默跳过，绝不新增行。
func (m *MySQL) UpdateOptimizedResume(ctx context.Context, userID string, record types.ResumeRecord) error {
	ctx, span := mysqlTracer.Start(ctx, "MySQL.UpdateOptimizedResume",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		semconv.DBSystemMySQL,
		attribute.String("db.name", m.cfg.Database),
		attribute.String("user.id", userID),
	)

	record = canonicalizeRecord(record)

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if summary, ok := record[types.SectionSummary].(string); ok && summary != "" {
			if err := tx.Model(&models.UserProfile{}).
				Where("user_id = ?", userID).
				Update("optimized_summary", summary).Error; err != nil {
				return fmt.Errorf("更新优化概要失败: %w", err)
			}
		}

		for _, entry := range entryList(record[types.SectionWorkExperience]) {
			role := strField(entry, "role", "title", "position")
			company := strField(entry, "company", "organization")
			if role == "" && company == "" {
				continue
			}
			if err := tx.Model(&models.WorkExperience{}).
				Where("user_id = ? AND role = ? AND company = ?", userID, role, company).
				Update("optimized_description", parser.FlattenDescription(entry["description"])).Error; err != nil {
				return fmt.Errorf("更新工作经历优化描述失败: %w", err)
			}
		}

		for _, entry := range entryList(record[types.SectionInternships]) {
			role := strField(entry, "role", "title", "position")
			company := strField(entry, "company", "organization")
			if role == "" && company == "" {
				continue
			}
			if err := tx.Model(&models.Internship{}).
				Where("user_id = ? AND role = ? AND company = ?", userID, role, company).
				Update("optimized_description", parser.FlattenDescription(entry["description"])).Error; err != nil {
				return fmt.Errorf("更新实习经历优化描述失败: %w", err)
			}
		}

		for _, entry := range entryList(record[types.SectionEducation]) {
			institution := strField(entry, "institution", "school", "university")
			degree := strField(entry, "degree")
			if institution == "" && degree == "" {
				continue
			}
			if err := tx.Model(&models.EducationEntry{}).
				Where("user_id = ? AND institution = ? AND degree = ?", userID, institution, degree).
				Update("optimized_description", parser.FlattenDescription(entry["description"])).Error; err != nil {
				return fmt.Errorf("更新教育经历优化描述失败: %w", err)
			}
		}

		for _, entry := range entryList(record[types.SectionProjects]) {
			title := strField(entry, "title", "name")
			if title == "" {
				continue
			}
			if err := tx.Model(&models.Project{}).
				Where("user_id = ? AND title = ?", userID, title).
				Update("optimized_description", parser.FlattenDescription(entry["description"])).Error; err != nil {
				return fmt.Errorf("更新项目优化描述失败: %w", err)
			}
		}

		for _, entry := range entryList(record[types.SectionCertifications]) {
			name := strField(entry, "name", "title")
			if name == "" {
				continue
			}
			if err := tx.Model(&models.Certification{}).
				Where("user_id = ? AND name = ?", userID, name).
				Update("optimized_description", parser.FlattenDescription(entry["description"])).Error; err != nil {
				return fmt.Errorf("更新证书优化描述失败: %w", err)
			}
		}

		// 非标准章节按存储的章节名匹配
		canonical := make(map[string]bool, len(types.CanonicalSectionOrder))
		for _, key := range types.CanonicalSectionOrder {
			canonical[key] = true
		}
		for key, value := range record {
			if canonical[key] {
				continue
			}
			flat := parser.StringifyListContent(value)
			if flat == "" {
				continue
			}
			if err := tx.Model(&models.AdditionalSection{}).
				Where("user_id = ? AND section_name = ?", userID, key).
				Update("optimized_description", flat).Error; err != nil {
				return fmt.Errorf("更新附加章节优化描述失败: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// SaveCareerPlan 保存或更新用户的职业规划
func (m *MySQL) SaveCareerPlan(ctx context.Context, userID string, targetRole string, plan *types.CareerPlan) error {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("序列化职业规划失败: %w", err)
	}

	row := &models.CareerPlanRecord{
		UserID:     userID,
		TargetRole: targetRole,
		PlanJSON:   planJSON,
	}

	return m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_role", "plan_json"}),
	}).Create(row).Error
}

// GetCareerPlan 读取用户的职业规划
func (m *MySQL) GetCareerPlan(ctx context.Context, userID string) (*types.CareerPlan, error) {
	var row models.CareerPlanRecord
	if err := m.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user_id=%s: %w", userID, ErrPlanNotFound)
		}
		return nil, fmt.Errorf("查询职业规划失败: %w", err)
	}

	var plan types.CareerPlan
	if err := json.Unmarshal(row.PlanJSON, &plan); err != nil {
		return nil, fmt.Errorf("反序列化职业规划失败: %w", err)
	}
	return &plan, nil
}

// GetResumeFileName 返回用户上传时的原始文件名，用于生成下载文件名
func (m *MySQL) GetResumeFileName(ctx context.Context, userID string) (string, error) {
	var profile models.UserProfile
	err := m.db.WithContext(ctx).
		Select("resume_file_name").
		First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("user_id=%s: %w", userID, ErrUserNotFound)
		}
		return "", fmt.Errorf("查询简历文件名失败: %w", err)
	}
	return profile.ResumeFileName, nil
}

// LogJobSearch 记录一次岗位检索，失败只影响日志不影响主流程
func (m *MySQL) LogJobSearch(ctx context.Context, userID *string, location string, skills []string, resultsCount int) error {
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("序列化技能列表失败: %w", err)
	}

	row := &models.JobSearchLog{
		UserID:       userID,
		Location:     location,
		SkillsJSON:   skillsJSON,
		ResultsCount: resultsCount,
	}
	return m.db.WithContext(ctx).Create(row).Error
}
