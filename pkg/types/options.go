package types

// CmdOptionsType 命令行选项结构体，超时单位为秒
type CmdOptionsType struct {
	Target       []string // 扫描目标
	TargetsList  string   // 扫描目标文件
	Output       string   // 结果输出文件
	JSONOutput   bool     // 使用JSON格式输出到文件
	Format       string   // 输出格式 txt|csv|json|msgpack
	SockOutput   string   // socket文件输出路径
	Match        string   // CEL结果过滤表达式
	NoColor      bool     // 关闭控制台颜色
	Proxy        string   // 代理地址
	Insecure     bool     // 跳过TLS证书校验
	ConnTimeout  int      // 连接超时
	Timeout      int      // 读超时
	UserAgent    string   // 自定义User-Agent
	Threads      int      // 目标并发数
	Workers      int      // 单个目标的探测并发数
	Force        bool     // 未识别为Liferay时仍继续探测
	EnumUsers    bool     // 通过博客RSS枚举用户
	EnumPortlets bool     // 枚举已安装的portlet
	UsersFile    string   // 屏幕名字典
	NamesFile    string   // 名字字典
	PortletsFile string   // portlet字典
	Debug        bool     // debug日志
	Config       string   // 配置文件路径
	InitConfig   bool     // 初始化配置文件
	PrintPreset  bool     // 打印当前生效的配置
	Version      bool     // 查看版本信息
}
