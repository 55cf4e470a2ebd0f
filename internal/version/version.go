package version

// Version 进程级版本号，点分三段数字
const Version = "1.0.0"

// ServerName 初始化握手时对外声明的 Server 名称
const ServerName = "my-mcp-server"
