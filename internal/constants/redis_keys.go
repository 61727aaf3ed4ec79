package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// FileModulePrefix 文件模块
	FileModulePrefix = "file"
	// RoadmapModulePrefix 职业规划模块
	RoadmapModulePrefix = "roadmap"

	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityMD5ToUUID MD5到UUID的映射实体
	EntityMD5ToUUID = "md5_to_uuid"
	// EntityPlan 职业规划实体
	EntityPlan = "plan"

	// KeyFileMD5Set 文件MD5集合，用于快速去重 (SET)
	// 格式: app:file:dedup_set
	KeyFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet

	// KeyFileMD5ToSubmissionUUID MD5到SubmissionUUID的映射 (STRING)
	// 格式: app:file:md5_to_uuid:{md5}
	KeyFileMD5ToSubmissionUUID = AppPrefix + ":" + FileModulePrefix + ":" + EntityMD5ToUUID + ":%s"

	// KeyCareerPlan 职业规划缓存 (STRING, JSON序列化)
	// 格式: app:roadmap:plan:{userID}
	KeyCareerPlan = AppPrefix + ":" + RoadmapModulePrefix + ":" + EntityPlan + ":%s"

	// KeyRoadmapLock 职业规划生成互斥锁，%s 为 user_id。
	// 同一用户的规划生成开销较大，用锁避免并发重复调用模型。
	KeyRoadmapLock = AppPrefix + ":" + RoadmapModulePrefix + ":lock:%s"
)
